// Package discovery locates analyzer report files on disk.
package discovery

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var skipDirs = map[string]struct{}{
	".git":         {},
	".gradle":      {},
	"node_modules": {},
}

// Find walks every root and returns the files accepted by match, sorted and
// without duplicates. A root naming a regular file is always returned.
func Find(roots []string, match func(path string) bool) ([]string, error) {
	found := map[string]struct{}{}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read report location %s", root)
		}
		if !info.IsDir() {
			found[filepath.Clean(root)] = struct{}{}
			continue
		}
		err = godirwalk.Walk(root, &godirwalk.Options{
			Callback: func(name string, de *godirwalk.Dirent) error {
				if de.IsDir() {
					if _, skip := skipDirs[de.Name()]; skip && name != root {
						return godirwalk.SkipThis
					}
					return nil
				}
				if match(name) {
					found[filepath.Clean(name)] = struct{}{}
				}
				return nil
			},
			FollowSymbolicLinks: true,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "unable to walk %s", root)
		}
	}

	files := make([]string, 0, len(found))
	for f := range found {
		files = append(files, f)
	}
	sort.Strings(files)
	log.Debugf("Discovery: %d report files found in %v", len(files), roots)
	return files, nil
}
