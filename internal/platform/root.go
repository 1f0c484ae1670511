package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// StoreDirName is the directory that marks a notebook.
const StoreDirName = ".notey"

// FindRoot looks upwards from startDir for a notebook: a directory holding
// a .notey directory or a notey.yaml file. It returns the notebook store
// path (the .notey directory, or the directory holding notey.yaml).
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(filepath.Join(dir, StoreDirName)) {
			return filepath.Join(dir, StoreDirName), nil
		}
		if hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

// DefaultStorePath is the notebook found from the working directory, or
// $HOME/.notey.
func DefaultStorePath() string {
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return root
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, StoreDirName)
	}
	return StoreDirName
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
