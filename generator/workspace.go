package generator

import (
	"os"

	"github.com/minios-linux/litgen/discovery"
)

// DiskWorkspace is the Workspace backed by the local file system.
type DiskWorkspace struct {
	finder *discovery.Finder
}

// NewDiskWorkspace wraps a discovery.Finder.
func NewDiskWorkspace(finder *discovery.Finder) *DiskWorkspace {
	return &DiskWorkspace{finder: finder}
}

// Find implements Workspace.
func (w *DiskWorkspace) Find(module string) (*discovery.Files, error) {
	return w.finder.Find(module)
}

// ReadFile implements Workspace.
func (w *DiskWorkspace) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
