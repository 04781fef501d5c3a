package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })
	Setup("release", "test")

	SetLevel("warn")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn global level, got %s", zerolog.GlobalLevel())
	}
	if log.Logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected package logger at warn, got %s", log.Logger.GetLevel())
	}

	SetLevel("")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("expected empty level to keep warn, got %s", zerolog.GlobalLevel())
	}

	SetLevel("loud")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("expected invalid level to fall back to info, got %s", zerolog.GlobalLevel())
	}
}
