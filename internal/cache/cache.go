package cache

// This cache keeps the text of every file read by a build so that rebuilding
// in watch mode only goes back to the file system for files that changed. It
// has no way of noticing changes by itself. Whoever owns it must invalidate a
// path when the file at that path changes, and entries for files that are no
// longer part of the build must be dropped with "Retain" so the cache doesn't
// grow forever.
//
// Only successful reads are cached. A file that is missing now may exist by
// the next build.

import (
	"sync"

	"github.com/esmpack/esmpack/internal/fs"
)

type FSCache struct {
	entries map[string]string
	mutex   sync.Mutex
}

func MakeFSCache() *FSCache {
	return &FSCache{entries: make(map[string]string)}
}

// ReadFile is safe to call from multiple goroutines at once
func (c *FSCache) ReadFile(fsys fs.FS, path string) (string, error) {
	c.mutex.Lock()
	contents, ok := c.entries[path]
	c.mutex.Unlock()
	if ok {
		return contents, nil
	}

	contents, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[path] = contents
	return contents, nil
}

func (c *FSCache) Invalidate(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, path)
}

// Retain drops every entry whose path isn't in "paths"
func (c *FSCache) Retain(paths []string) {
	keep := make(map[string]bool, len(paths))
	for _, path := range paths {
		keep[path] = true
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	for path := range c.entries {
		if !keep[path] {
			delete(c.entries, path)
		}
	}
}

func (c *FSCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}
