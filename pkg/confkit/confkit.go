// Package confkit holds the small config-file conventions shared by the
// gridscope server and its cmd tools: paths inside a config file resolve
// against the directory of that file, optional sections may hydrate from a
// sibling file, and .env discovery walks up to the module root.
package confkit

import (
	"os"
	"path/filepath"
)

// BaseDir returns the directory all relative paths inside the config file at
// mainPath resolve against.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// ResolvePath expands environment variables in file and anchors it at base
// unless it is already absolute. Checkpoint and upstream file settings go
// through this so `etc/gridscope.yaml` can name siblings by bare filename.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// Section is a config subtree that can live in its own file next to the main
// one. Only the file name is decoded from the main config; Hydrate fills
// Value. The upstream provider catalogue uses this so feed credentials stay
// out of the service config.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate resolves File against base and runs loader on it, recording the
// resolved path back into File. A Section without a file is left empty and
// is not an error.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	resolved := ResolvePath(base, s.File)
	value, err := loader(resolved)
	if err != nil {
		return err
	}
	s.File = resolved
	s.Value = value
	return nil
}
