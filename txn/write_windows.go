package txn

import "os"

// renameio does not support Windows; fall back to a plain write.
func atomicWrite(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}
