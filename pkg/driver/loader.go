package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitPrefix marks a program source fetched from a git repository:
// git+<url>#<path>[@<rev>].
const GitPrefix = "git+"

// Source identifies where a program comes from.
type Source struct {
	// Ref is the reference as given on the command line.
	Ref string
	// Path is a local file path, or the path inside the repository for git
	// sources.
	Path string
	// Git is set for git sources.
	Git *GitSource
}

// GitSource describes a program stored in a git repository.
type GitSource struct {
	URL string
	// Rev is a commit, tag, branch or any revision go-git resolves; empty
	// means HEAD.
	Rev string
}

func (s Source) String() string {
	return s.Ref
}

// ParseSource classifies ref as a local path or a git source.
func ParseSource(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Source{}, errors.New("source: empty reference")
	}
	rest, ok := strings.CutPrefix(ref, GitPrefix)
	if !ok {
		return Source{Ref: ref, Path: ref}, nil
	}

	url, location, found := cutLast(rest, "#")
	if !found || url == "" || location == "" {
		return Source{}, fmt.Errorf("source %s: expected git+<url>#<path>[@<rev>]", ref)
	}
	path, rev, _ := cutLast(location, "@")
	path = filepath.ToSlash(filepath.Clean(path))
	if path == "." || !filepath.IsLocal(path) {
		return Source{}, fmt.Errorf("source %s: path %q must be relative to the repository root", ref, path)
	}
	return Source{Ref: ref, Path: path, Git: &GitSource{URL: url, Rev: strings.TrimSpace(rev)}}, nil
}

func cutLast(s, sep string) (string, string, bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

// Loader reads program sources, checking git sources out into a cache.
type Loader struct {
	cacheDir string
}

// NewLoader returns a loader caching git checkouts under cacheDir.
func NewLoader(cacheDir string) *Loader {
	return &Loader{cacheDir: cacheDir}
}

// Load returns the program text for src.
func (l *Loader) Load(src Source) ([]byte, error) {
	if src.Git == nil {
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Ref, err)
		}
		return data, nil
	}
	dir, err := l.checkout(src.Git)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Ref, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(src.Path)))
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Ref, err)
	}
	return data, nil
}

// checkout returns a directory holding the requested revision. Checkouts
// are keyed by commit so a cached revision is never cloned twice.
func (l *Loader) checkout(src *GitSource) (string, error) {
	if l.cacheDir == "" {
		return "", errors.New("git sources require a cache directory")
	}
	baseDir := filepath.Join(l.cacheDir, "git", sanitizePathSegment(src.URL))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	if src.Rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(src.Rev))
		if info, err := os.Stat(existing); err == nil && info.IsDir() {
			return existing, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: src.URL})
	if err != nil {
		cleanup()
		return "", fmt.Errorf("git clone %s: %w", src.URL, err)
	}

	revision := plumbing.Revision("HEAD")
	if src.Rev != "" {
		revision = plumbing.Revision(src.Rev)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		cleanup()
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	targetDir := filepath.Join(baseDir, sanitizePathSegment(hash.String()))
	if _, err := os.Stat(targetDir); err == nil {
		cleanup()
		return targetDir, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		cleanup()
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		cleanup()
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		cleanup()
		return "", err
	}
	return targetDir, nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
