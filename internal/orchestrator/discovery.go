package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"codekg/internal/config"
	"codekg/internal/logging"
)

// discoveredFile is one file found under a workspace root, tagged with the
// root prefix its node ids will carry.
type discoveredFile struct {
	AbsPath string
	RelPath string
	Root    config.ResolvedRoot
}

// fileID is the value stored as a node's File field and passed as the
// semid.Context.File for everything analyzed from this file: the root's
// basename prefix joined with the root-relative path, so the same relative
// path under two different roots never collides, and adding a new root
// never perturbs ids already computed under an existing one.
func (f discoveredFile) fileID() string {
	return filepath.ToSlash(filepath.Join(f.Root.Prefix, f.RelPath))
}

// discover walks every resolved root, skipping cfg.Exclude directory names
// and any file whose extension isn't claimed by an extension in allowedExt.
// A hidden directory (dotfile-style) is skipped unless it's named explicitly
// in cfg.Include, mirroring the allow-list carve-out for directories like
// .github that legitimate projects still want indexed.
func discover(ctx context.Context, cfg *config.Config, roots []config.ResolvedRoot, allowedExt map[string]bool) ([]discoveredFile, error) {
	exclude := make(map[string]bool, len(cfg.Exclude))
	for _, e := range cfg.Exclude {
		exclude[e] = true
	}
	include := make(map[string]bool, len(cfg.Include))
	for _, i := range cfg.Include {
		include[i] = true
	}

	var files []discoveredFile
	log := logging.Get(logging.CategoryDiscovery)

	for _, root := range roots {
		walkErr := filepath.WalkDir(root.AbsPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			name := d.Name()
			if d.IsDir() {
				if path == root.AbsPath {
					return nil
				}
				if exclude[name] {
					log.Debug("skipping excluded directory: %s", path)
					return filepath.SkipDir
				}
				if strings.HasPrefix(name, ".") && !include[name] {
					log.Debug("skipping hidden directory: %s", path)
					return filepath.SkipDir
				}
				return nil
			}

			ext := strings.ToLower(filepath.Ext(name))
			if !allowedExt[ext] {
				return nil
			}

			rel, err := filepath.Rel(root.AbsPath, path)
			if err != nil {
				return err
			}
			files = append(files, discoveredFile{AbsPath: path, RelPath: rel, Root: root})
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	log.Debug("discovered %d files across %d root(s)", len(files), len(roots))
	return files, nil
}
