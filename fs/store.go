package fs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// atomicDir writes files under baseDir/name.tmp and moves them to
// baseDir/name on Commit, replacing any previous output.
type atomicDir struct {
	baseDir string
	name    string

	mu    sync.Mutex
	count int
	owner map[string]string // relative path -> URI written there
}

func (d *atomicDir) tempDir() string {
	return filepath.Join(d.baseDir, d.name+".tmp")
}

func (d *atomicDir) finalDir() string {
	return filepath.Join(d.baseDir, d.name)
}

// write stores content for key at the slash-separated relative path rel.
// When rel already holds the content of a different key, the file gets a
// hash suffix derived from key instead of being overwritten.
func (d *atomicDir) write(key, rel string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.owner == nil {
		d.owner = make(map[string]string)
	}
	if prev, ok := d.owner[rel]; ok && prev != key {
		ext := path.Ext(rel)
		rel = fmt.Sprintf("%s_%08x%s", strings.TrimSuffix(rel, ext), uint32(xxhash.Sum64String(key)), ext)
	}

	root := d.tempDir()
	fullPath := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(fullPath, root+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %s", rel)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return err
	}

	if _, ok := d.owner[rel]; !ok {
		d.owner[rel] = key
		d.count++
	}
	return nil
}

// Count returns the number of files written.
func (d *atomicDir) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Commit moves the written files into the final directory.
func (d *atomicDir) Commit() error {
	if _, err := os.Stat(d.tempDir()); os.IsNotExist(err) {
		return nil
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(d.finalDir()); err != nil {
		return err
	}
	return os.Rename(d.tempDir(), d.finalDir())
}

// Abort discards the written files.
func (d *atomicDir) Abort() error {
	return os.RemoveAll(d.tempDir())
}
