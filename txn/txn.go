// Package txn stages file rewrites in memory and commits them together.
//
// Every staged file is validated before anything is written: it must still
// exist, be writable and hash to the content it was read with. Commit then
// writes each file atomically and, if one write fails, restores the files
// already written from their staged originals.
package txn

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/multierr"
)

// ErrStale is returned when a file changed on disk after it was staged.
var ErrStale = errors.New("file changed since it was read")

// writeFile is swapped in tests to simulate failures.
var writeFile = atomicWrite

// Hash computes the MD5 hex digest of data.
func Hash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

type change struct {
	path     string
	original []byte
	updated  []byte
	hash     string
}

// Txn is a set of staged file rewrites. It is not safe for concurrent use.
type Txn struct {
	changes []*change
	index   map[string]int
}

// New returns an empty transaction.
func New() *Txn {
	return &Txn{index: make(map[string]int)}
}

// Stage records that path, last read as original, should become updated.
// Staging a path twice keeps the first original. Unchanged content is
// ignored.
func (t *Txn) Stage(path string, original, updated []byte) {
	if i, ok := t.index[path]; ok {
		t.changes[i].updated = updated
		return
	}
	if bytes.Equal(original, updated) {
		return
	}
	t.index[path] = len(t.changes)
	t.changes = append(t.changes, &change{
		path:     path,
		original: original,
		updated:  updated,
		hash:     Hash(original),
	})
}

// Len returns the number of staged files.
func (t *Txn) Len() int {
	return len(t.changes)
}

// Paths returns the staged paths in staging order.
func (t *Txn) Paths() []string {
	paths := make([]string, len(t.changes))
	for i, c := range t.changes {
		paths[i] = c.path
	}
	return paths
}

// Validate checks every staged file without writing anything. All problems
// are reported together.
func (t *Txn) Validate() error {
	var err error
	for _, c := range t.changes {
		err = multierr.Append(err, validate(c))
	}
	return err
}

func validate(c *change) error {
	info, err := os.Stat(c.path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", c.path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", c.path)
	}

	current, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}
	if Hash(current) != c.hash {
		return fmt.Errorf("%s: %w", c.path, ErrStale)
	}

	f, err := os.OpenFile(c.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", c.path, err)
	}
	f.Close()

	probe, err := os.CreateTemp(filepath.Dir(c.path), ".litgen-*")
	if err != nil {
		return fmt.Errorf("directory of %s is not writable: %w", c.path, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// Commit validates and then writes every staged file. On a write failure
// the files written so far are restored and the combined error returned.
func (t *Txn) Commit() error {
	if err := t.Validate(); err != nil {
		return err
	}

	var written []*change
	for _, c := range t.changes {
		if err := writeFile(c.path, c.updated); err != nil {
			err = fmt.Errorf("writing %s: %w", c.path, err)
			for _, w := range written {
				if rerr := writeFile(w.path, w.original); rerr != nil {
					err = multierr.Append(err, fmt.Errorf("restoring %s: %w", w.path, rerr))
				}
			}
			return err
		}
		written = append(written, c)
	}
	return nil
}

// Diff renders a unified diff of all staged changes. Paths are shown
// relative to root when possible.
func (t *Txn) Diff(root string) (string, error) {
	var b strings.Builder
	for _, c := range t.changes {
		name := c.path
		if rel, err := filepath.Rel(root, c.path); err == nil {
			name = filepath.ToSlash(rel)
		}
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(c.original)),
			B:        difflib.SplitLines(string(c.updated)),
			FromFile: "a/" + name,
			ToFile:   "b/" + name,
			Context:  3,
		})
		if err != nil {
			return "", fmt.Errorf("diffing %s: %w", c.path, err)
		}
		b.WriteString(diff)
	}
	return b.String(), nil
}
