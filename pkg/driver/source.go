package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ReadSource returns the contents of path. A non-empty rev reads the file as
// committed at that revision of the enclosing git repository instead of the
// working tree.
func ReadSource(path, rev string) ([]byte, error) {
	if rev == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		return data, nil
	}
	return readAtRevision(path, rev)
}

func readAtRevision(path, rev string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("source: open repository for %s: %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	rel, err := repoRelative(worktree.Filesystem.Root(), abs)
	if err != nil {
		return nil, err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("source: resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("source: load commit %s: %w", hash, err)
	}
	file, err := commit.File(rel)
	if err != nil {
		return nil, fmt.Errorf("source: %s at %s: %w", rel, rev, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("source: read %s at %s: %w", rel, rev, err)
	}
	log.Debugf("read %s at %s (%s)", rel, rev, hash.String()[:7])
	return []byte(contents), nil
}

func repoRelative(root, abs string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("source: %s is outside %s: %w", abs, root, err)
	}
	return filepath.ToSlash(rel), nil
}
