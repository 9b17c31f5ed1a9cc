package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// File cache for rendered public pages. Entries are keyed by page kind
// ("blog", "projects") plus the route identifier (slug or id).

func pagePath(kind, key string) string {
	hash := xxhash.Sum64String(kind + "/" + key)
	return filepath.Join("cache", kind, fmt.Sprintf("%s_%016x.html", key, hash))
}

func Write(kind, key, html string) error {
	dir := filepath.Join("cache", kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(pagePath(kind, key), []byte(html), 0o644)
}

// Read returns a cached page unless it is missing or older than maxAge.
func Read(kind, key string, maxAge time.Duration) (string, bool) {
	path := pagePath(kind, key)

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(content), true
}

// Clear removes the cached page for one key. A missing entry is not an error.
func Clear(kind, key string) error {
	err := os.Remove(pagePath(kind, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	// Also drop stale entries left behind by a key whose hash input changed.
	pattern := filepath.Join("cache", kind, key+"_*.html")
	matches, globErr := filepath.Glob(pattern)
	if globErr == nil {
		for _, match := range matches {
			os.Remove(match)
		}
	}
	return nil
}

// ClearKind removes every cached page of one kind.
func ClearKind(kind string) error {
	return os.RemoveAll(filepath.Join("cache", kind))
}

// ClearOld removes cache files older than maxAge across all kinds.
func ClearOld(maxAge time.Duration) error {
	return filepath.Walk("cache", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}
		return nil
	})
}
