//go:build !windows

package txn

import (
	"os"

	"github.com/google/renameio/v2"
)

func atomicWrite(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return renameio.WriteFile(path, data, perm)
}
