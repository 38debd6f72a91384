package confkit

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Directories above this package are searched at most this many levels deep
// for the module root.
const maxAscent = 8

// ascend walks from dir toward the filesystem root, calling visit for each
// directory. The walk stops when visit returns true, when a directory
// containing go.mod or .git has been visited, or after maxAscent levels.
// It returns the last visited directory and whether that directory is the
// module root.
func ascend(dir string, visit func(dir string) bool) (string, bool) {
	for i := 0; i < maxAscent; i++ {
		stop := false
		if visit != nil {
			stop = visit(dir)
		}
		if fileExists(filepath.Join(dir, "go.mod")) || fileExists(filepath.Join(dir, ".git")) {
			return dir, true
		}
		if stop {
			return dir, false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir, false
		}
		dir = parent
	}
	return dir, false
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// sourceDir returns the directory holding this package's source, the anchor
// for module-root discovery. Discovery keyed to the source tree rather than
// the working directory keeps `go test ./...` and tools run from nested
// directories agreeing on where etc/ lives.
func sourceDir() (string, bool) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", false
	}
	return filepath.Dir(file), true
}

// ProjectRoot locates the module root. When source information is stripped
// from the binary it falls back to the working directory.
func ProjectRoot() (string, error) {
	if dir, ok := sourceDir(); ok {
		if root, found := ascend(dir, nil); found {
			return root, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return ".", fmt.Errorf("getwd: %w", err)
	}
	return wd, nil
}

// ProjectPath anchors rel at the module root.
func ProjectPath(rel string) (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, rel), nil
}

// MustProjectPath is ProjectPath for callers with no error path, such as
// default config locations.
func MustProjectPath(rel string) string {
	p, err := ProjectPath(rel)
	if err != nil {
		panic(err)
	}
	return p
}
