package backup

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions is the image allow-list used when none is configured.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "bmp", "gif"}

// skipFolders contains directory names that never hold user photos.
var skipFolders = map[string]bool{
	".stfolder":                 true, // Syncthing
	".fseventsd":                true, // macOS filesystem events
	".Trashes":                  true, // macOS trash
	".Spotlight-V100":           true, // macOS Spotlight index
	"@eaDir":                    true, // Synology thumbnails
	"$RECYCLE.BIN":              true, // Windows recycle bin
	"System Volume Information": true, // Windows
}

// WalkFunc walks the tree rooted at root, calling fn for each entry.
// filepath.WalkDir satisfies it.
type WalkFunc func(root string, fn fs.WalkDirFunc) error

// NormalizeExtensions turns an allow-list such as {"JPG", ".png", " gif"}
// into a lookup set of lowercase, dot-prefixed extensions.
func NormalizeExtensions(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		e = strings.TrimLeft(e, ".")
		if e == "" {
			continue
		}
		set["."+e] = true
	}
	return set
}

// Discover walks root and returns every regular file whose extension is in
// exts (matched case-insensitively), sorted for deterministic processing.
// Hidden files and folders are walked like any other; only the system
// folders in skipFolders are pruned. Errors on individual entries are passed to onError and the walk
// continues; only a failure on root itself is returned.
func Discover(root string, exts map[string]bool, walk WalkFunc, onError func(path string, err error)) ([]string, error) {
	if walk == nil {
		walk = filepath.WalkDir
	}

	var files []string
	err := walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if onError != nil {
				onError(path, err)
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && skipFolders[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(name))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
