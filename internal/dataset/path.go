package dataset

import (
	"os"
	"path/filepath"

	"github.com/KaramelBytes/prodash/internal/utils"
)

// ResolveInputPath makes a dataset path absolute. Relative paths are looked up
// next to the running executable first and then in the working directory; when
// neither exists the executable-relative path is returned so diagnostics name
// the install location.
func ResolveInputPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	var bases []string
	if exe, err := os.Executable(); err == nil {
		if real, err := filepath.EvalSymlinks(exe); err == nil {
			exe = real
		}
		bases = append(bases, filepath.Dir(exe))
	}
	wd, err := os.Getwd()
	if err != nil && len(bases) == 0 {
		return "", err
	}
	if err == nil {
		bases = append(bases, wd)
	}
	return utils.FirstExisting(path, bases...), nil
}
