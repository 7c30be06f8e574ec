// Package testutil provides test utilities and helpers for repokit tests.
package testutil

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// DefaultBranch is the branch HEAD points at in repositories built here.
const DefaultBranch = "main"

// GitRepo builds deterministic commit graphs directly in a repository's
// object store. Every commit shares an empty tree and gets a timestamp one
// hour after the previous one, so hashes and ordering are stable across runs.
type GitRepo struct {
	t     *testing.T
	Repo  *git.Repository
	tree  plumbing.Hash
	clock time.Time
}

// NewMemoryRepo creates a repository whose objects and worktree live in memory.
func NewMemoryRepo(t *testing.T) *GitRepo {
	t.Helper()

	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	return newGitRepo(t, repo)
}

// NewDiskRepo initializes a repository with a worktree at dir.
func NewDiskRepo(t *testing.T, dir string) *GitRepo {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return newGitRepo(t, repo)
}

func newGitRepo(t *testing.T, repo *git.Repository) *GitRepo {
	t.Helper()

	tree := &object.Tree{}
	obj := repo.Storer.NewEncodedObject()
	require.NoError(t, tree.Encode(obj))
	treeHash, err := repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)

	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(DefaultBranch))
	require.NoError(t, repo.Storer.SetReference(head))

	return &GitRepo{
		t:     t,
		Repo:  repo,
		tree:  treeHash,
		clock: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Commit stores a commit with the given message and parents and returns its
// full hash. No branch is moved.
func (g *GitRepo) Commit(message string, parents ...string) string {
	g.t.Helper()

	g.clock = g.clock.Add(time.Hour)
	sig := object.Signature{Name: "Test Author", Email: "author@example.com", When: g.clock}
	c := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   message,
		TreeHash:  g.tree,
	}
	for _, p := range parents {
		c.ParentHashes = append(c.ParentHashes, plumbing.NewHash(p))
	}

	obj := g.Repo.Storer.NewEncodedObject()
	require.NoError(g.t, c.Encode(obj))
	hash, err := g.Repo.Storer.SetEncodedObject(obj)
	require.NoError(g.t, err)
	return hash.String()
}

// Chain commits each message on top of the previous one, starting from
// parent (empty for a root commit), points branch at the last commit, and
// returns the hashes oldest first.
func (g *GitRepo) Chain(branch, parent string, messages ...string) []string {
	g.t.Helper()

	hashes := make([]string, 0, len(messages))
	for _, msg := range messages {
		var parents []string
		if parent != "" {
			parents = []string{parent}
		}
		parent = g.Commit(msg, parents...)
		hashes = append(hashes, parent)
	}
	if branch != "" && parent != "" {
		g.SetBranch(branch, parent)
	}
	return hashes
}

// SetBranch points refs/heads/name at hash.
func (g *GitRepo) SetBranch(name, hash string) {
	g.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(hash))
	require.NoError(g.t, g.Repo.Storer.SetReference(ref))
}

// AddRemote configures a remote with a single URL.
func (g *GitRepo) AddRemote(name, url string) {
	g.t.Helper()

	_, err := g.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	require.NoError(g.t, err)
}
