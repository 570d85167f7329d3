package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolvedRoot is one validated workspace root: its absolute path on disk
// and the prefix every node id under it carries (the root's basename, per
// the semantic-id stability invariant that adding an unrelated root must
// never change an existing node's id).
type ResolvedRoot struct {
	AbsPath string
	Prefix  string
}

// ResolveRoots validates cfg.Roots against the filesystem and derives each
// root's id prefix. It rejects a workspace whose roots are unreachable or
// whose basenames collide — a basename collision would make two distinct
// files from different roots indistinguishable by id prefix.
func ResolveRoots(cfg *Config) ([]ResolvedRoot, error) {
	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("config: workspace has no roots configured")
	}

	seen := make(map[string]string, len(cfg.Roots))
	resolved := make([]ResolvedRoot, 0, len(cfg.Roots))

	for _, root := range cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("config: resolving root %q: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("config: root %q does not exist: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("config: root %q is not a directory", root)
		}

		prefix := filepath.Base(abs)
		if other, dup := seen[prefix]; dup {
			return nil, fmt.Errorf("config: roots %q and %q share the basename %q, which would make their node ids indistinguishable", other, root, prefix)
		}
		seen[prefix] = root

		resolved = append(resolved, ResolvedRoot{AbsPath: abs, Prefix: prefix})
	}
	return resolved, nil
}
