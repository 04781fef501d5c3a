package main

import (
	"testing"
	"time"
)

func TestObjectRelativePath(t *testing.T) {
	cases := []struct {
		prefix, key, want string
	}{
		{prefix: "", key: "imports/2024/sales.xlsx", want: "sales.xlsx"},
		{prefix: "imports/", key: "imports/2024/sales.csv", want: "2024/sales.csv"},
		{prefix: "exports", key: "imports/sales.csv", want: "sales.csv"},
	}
	for _, tc := range cases {
		if got := objectRelativePath(tc.prefix, tc.key); got != tc.want {
			t.Fatalf("objectRelativePath(%q, %q): expected %q, got %q", tc.prefix, tc.key, tc.want, got)
		}
	}
}

func TestOptionalDate(t *testing.T) {
	got, err := optionalDate("", time.UTC)
	if err != nil || got != nil {
		t.Fatalf("expected nil date for empty input, got %v %v", got, err)
	}

	got, err = optionalDate("2024-06-15", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", got)
	}

	if _, err := optionalDate("15-06-2024", time.UTC); err == nil {
		t.Fatalf("expected parse error")
	}
}
