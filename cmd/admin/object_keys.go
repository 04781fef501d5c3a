package main

import (
	"path/filepath"
	"strings"
)

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return filepath.Base(key)
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" || rel == key {
		return filepath.Base(key)
	}
	return rel
}
