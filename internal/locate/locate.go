// Package locate discovers source PDF files under an input root.
package locate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotDirectory is returned when the input root is missing or not a directory.
// It is fatal for the whole run.
var ErrNotDirectory = errors.New("input path is not a directory")

// Find returns all PDF paths under root, naturally sorted and de-duplicated.
// With recursive set, subdirectories are walked as well. An empty result is
// not an error; it means there is nothing to do.
func Find(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	seen := make(map[string]struct{})
	var paths []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	if recursive {
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPDF(d.Name()) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isPDF(entry.Name()) {
				add(filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return NaturalLess(paths[i], paths[j])
	})

	return paths, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// NaturalLess orders strings the way a human expects: embedded digit runs
// compare numerically, so "file2" sorts before "file10". Non-digit runs
// compare case-insensitively.
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aRun, aNum, aRest := nextRun(a)
		bRun, bNum, bRest := nextRun(b)

		if aNum && bNum {
			// Compare digit runs numerically: strip leading zeros,
			// then longer is larger, then lexicographic.
			at := strings.TrimLeft(aRun, "0")
			bt := strings.TrimLeft(bRun, "0")
			if len(at) != len(bt) {
				return len(at) < len(bt)
			}
			if at != bt {
				return at < bt
			}
		} else {
			al := strings.ToLower(aRun)
			bl := strings.ToLower(bRun)
			if al != bl {
				return al < bl
			}
		}
		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

// nextRun splits off the leading run of digits or non-digits.
func nextRun(s string) (run string, numeric bool, rest string) {
	numeric = isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == numeric {
		i++
	}
	return s[:i], numeric, s[i:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
