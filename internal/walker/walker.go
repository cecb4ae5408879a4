// Package walker lists the files of a repository tree, skipping
// excluded directories, symlinks, and oversized files.
package walker

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo holds metadata about a discovered file.
type FileInfo struct {
	Path    string // absolute
	RelPath string // slash-separated, relative to the root
	Size    int64
}

// maxFileSize is the largest file we'll consider (1 MB).
const maxFileSize = 1 << 20

// DefaultExcludes are the directories skipped when no .repolensignore
// file overrides them.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"venv",
	"env",
	".env",
	"build",
	"dist",
}

// Walk traverses the tree rooted at root and sends discovered files on
// the returned channel. Unreadable subtrees are skipped; only a failure
// on the root itself or a cancelled context is reported on the error
// channel. An empty exclude list means the defaults (or a
// .repolensignore file in the root). Both channels close when the walk
// ends, even if the consumer stops receiving.
func Walk(ctx context.Context, root string, exclude []string) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}

		if len(exclude) == 0 {
			exclude = loadIgnorePatterns(absRoot)
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err != nil {
				if path == absRoot {
					// An unreadable root aborts the run; anything
					// below it is skipped.
					return err
				}
				return nil
			}

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				rel, _ := filepath.Rel(absRoot, path)
				if matchesExclude(d.Name(), filepath.ToSlash(rel), exclude) {
					return filepath.SkipDir
				}
				return nil
			}

			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() > maxFileSize || info.Size() == 0 {
				return nil
			}

			relPath, _ := filepath.Rel(absRoot, path)
			select {
			case files <- FileInfo{
				Path:    path,
				RelPath: filepath.ToSlash(relPath),
				Size:    info.Size(),
			}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// loadIgnorePatterns reads .repolensignore from the root, falling back
// to the default exclude set.
func loadIgnorePatterns(root string) []string {
	f, err := os.Open(filepath.Join(root, ".repolensignore"))
	if err != nil {
		return DefaultExcludes
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return DefaultExcludes
	}
	return patterns
}

// matchesExclude checks a directory name or relative path against the
// exclude patterns: exact names, whole path segments, and globs. "env"
// excludes env/ anywhere but never environments/.
func matchesExclude(name, relPath string, patterns []string) bool {
	for _, p := range patterns {
		if name == p || relPath == p {
			return true
		}
		if strings.HasPrefix(relPath, p+"/") {
			return true
		}
		if matched, _ := filepath.Match(p, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}
