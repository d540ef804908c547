package source

import (
	"fmt"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitRevision reads a program as it was committed at Revision, without
// touching the working tree. Revision accepts anything git rev-parse
// would (a hash, HEAD~1, a branch or tag name).
type GitRevision struct {
	RepoDir  string // any directory inside the repository
	Revision string
	Path     string // worktree-relative, or a filesystem path inside the worktree
}

func (g GitRevision) Name() string {
	return g.Path + "@" + g.Revision
}

func (g GitRevision) Text() (string, error) {
	dir := g.RepoDir
	if dir == "" {
		dir = "."
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", dir, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(g.Revision))
	if err != nil {
		return "", fmt.Errorf("resolve revision %s: %w", g.Revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("load commit %s: %w", hash, err)
	}

	rel := g.Path
	if wt, err := repo.Worktree(); err == nil {
		rel = treePath(wt.Filesystem.Root(), g.Path)
	}
	file, err := commit.File(rel)
	if err != nil {
		return "", fmt.Errorf("%s at %s: %w", rel, g.Revision, err)
	}
	return file.Contents()
}

// treePath maps path onto the slash-separated form git trees use. Paths
// that do not resolve inside root are taken as already relative to it.
func treePath(root, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
