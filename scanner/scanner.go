package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

// New returns a scanner for the files under rootDir whose extension is one
// of extensions. With no extensions every regular file matches.
func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the tree and returns the matching files sorted by path.
// Hidden directories (".git", ".cache", ...) below the root are skipped.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !s.Match(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Paths is Scan without the sizes.
func (s *Scanner) Paths() ([]string, error) {
	files, err := s.Scan()
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, err
}

// Match reports whether path has one of the scanner's extensions.
func (s *Scanner) Match(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
