package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DirSink writes files below a local directory.
type DirSink struct {
	root string
}

// NewDirSink returns a sink rooted at dir. The directory is created on the
// first write.
func NewDirSink(dir string) *DirSink {
	return &DirSink{root: dir}
}

// Name implements Sink.
func (d *DirSink) Name() string {
	return "dir:" + d.root
}

// Put writes data to root/name through a temporary file.
func (d *DirSink) Put(_ context.Context, name string, data []byte) error {
	clean := path.Clean(name)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path %q escapes the output directory", name)
	}

	target := filepath.Join(d.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
