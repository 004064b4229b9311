package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/onkernel/hdimage/lib/hdimage"
)

// resolver maps partition sources to files: outputs of images in the same
// build first, then regular files under the input directory.
type resolver struct {
	inputPath string
	outputs   map[string]string
}

func (r *resolver) Resolve(_ context.Context, name string) (string, error) {
	if out, ok := r.outputs[name]; ok {
		return out, nil
	}

	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q is not a relative path", hdimage.ErrSourceNotFound, name)
	}

	path := filepath.Join(r.inputPath, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", hdimage.ErrSourceNotFound, name, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", hdimage.ErrSourceNotFound, path)
	}
	return path, nil
}
