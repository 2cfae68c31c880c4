package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Find returns every file under the pattern's static prefix whose
// slash-normalized path matches the pattern, sorted lexicographically.
// Schema documents the glob happens to pick up (*.schema.json) are skipped.
// A pattern matching nothing is not an error.
func Find(pattern string) ([]string, error) {
	globs, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	root := staticPrefix(pattern)
	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing root means nothing matches.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".schema.json") {
			return nil
		}
		slashed := filepath.ToSlash(path)
		for _, g := range globs {
			if g.Match(slashed) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	sort.Strings(files)
	return files, nil
}

// compile builds the match set for a pattern. "**/" also matches zero
// directories, which a single gobwas pattern does not express, so the
// collapsed variant is compiled alongside the original.
func compile(pattern string) ([]glob.Glob, error) {
	pattern = filepath.ToSlash(pattern)
	variants := []string{pattern}
	if strings.Contains(pattern, "**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "**/", ""))
	}

	globs := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling report glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// staticPrefix returns the longest directory prefix of the pattern with no
// glob metacharacters, used as the walk root.
func staticPrefix(pattern string) string {
	i := strings.IndexAny(pattern, "*?[{")
	if i == -1 {
		i = len(pattern)
	}
	slash := strings.LastIndex(pattern[:i], "/")
	if slash <= 0 {
		return "."
	}
	return pattern[:slash]
}
