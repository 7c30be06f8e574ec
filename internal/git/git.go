// Package git provides the read-only source control operations the changelog
// engine needs: hash normalization with branch membership checks, half-open
// revision lists without merge commits, and single commit metadata lookup.
// It uses the go-git library so no git CLI installation is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ShortHashLength is the abbreviation length used for CommitInfo.ShortHash.
const ShortHashLength = 7

// minPrefixLength is the shortest hex prefix accepted as a commit hash.
const minPrefixLength = 4

var hexPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// Repository reads commit history from a git repository.
// It is safe for concurrent use; object reads are serialized internally.
type Repository struct {
	repo   *git.Repository
	logger *slog.Logger

	mu        sync.Mutex
	reachable map[plumbing.Hash]map[plumbing.Hash]struct{}
}

// Open opens the repository containing path. It walks up the directory tree
// to find the .git directory. If path is empty, the working directory is used.
func Open(path string, logger *slog.Logger) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return New(repo, logger), nil
}

// New wraps an already opened go-git repository.
func New(repo *git.Repository, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		repo:      repo,
		logger:    logger,
		reachable: make(map[plumbing.Hash]map[plumbing.Hash]struct{}),
	}
}

// ResolveHash normalizes ref (a full hash, a short hash of at least four hex
// characters, or any revision such as HEAD or a branch name) to a full
// 40 character commit hash. When checkBranch is true the commit must also be
// reachable from the named branch.
func (r *Repository) ResolveHash(ctx context.Context, ref, branch string, checkBranch bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	hash, err := r.resolve(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}

	if checkBranch {
		if err := r.checkOnBranch(ref, hash, branch); err != nil {
			return "", err
		}
	}

	r.logger.Debug("resolved commit reference",
		slog.String("ref", ref),
		slog.String("hash", hash.String()),
	)
	return hash.String(), nil
}

// resolve maps ref to a commit hash. Callers must hold r.mu.
func (r *Repository) resolve(ref string) (plumbing.Hash, error) {
	if ref == "" {
		return plumbing.ZeroHash, &CommitLookupError{Ref: ref, Err: errors.New("empty reference")}
	}

	lower := strings.ToLower(ref)
	if len(lower) >= minPrefixLength && len(lower) <= 40 && hexPattern.MatchString(lower) {
		hashes, err := r.commitsWithPrefix(lower)
		if err != nil {
			return plumbing.ZeroHash, &CommitLookupError{Ref: ref, Err: err}
		}
		switch len(hashes) {
		case 1:
			return hashes[0], nil
		case 0:
			// May still be a branch or tag that happens to look like hex.
		default:
			candidates := make([]string, len(hashes))
			for i, h := range hashes {
				candidates[i] = h.String()
			}
			sort.Strings(candidates)
			return plumbing.ZeroHash, &AmbiguousHashError{Ref: ref, Candidates: candidates}
		}
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, &CommitLookupError{Ref: ref, Err: err}
	}
	if _, err := r.repo.CommitObject(*hash); err != nil {
		return plumbing.ZeroHash, &CommitLookupError{Ref: ref, Err: err}
	}
	return *hash, nil
}

// commitsWithPrefix returns every commit whose hash starts with prefix.
func (r *Repository) commitsWithPrefix(prefix string) ([]plumbing.Hash, error) {
	if len(prefix) == 40 {
		hash := plumbing.NewHash(prefix)
		if _, err := r.repo.CommitObject(hash); err != nil {
			if errors.Is(err, plumbing.ErrObjectNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []plumbing.Hash{hash}, nil
	}

	iter, err := r.repo.CommitObjects()
	if err != nil {
		return nil, fmt.Errorf("listing commit objects: %w", err)
	}
	defer iter.Close()

	var matches []plumbing.Hash
	err = iter.ForEach(func(c *object.Commit) error {
		if strings.HasPrefix(c.Hash.String(), prefix) {
			matches = append(matches, c.Hash)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning commit objects: %w", err)
	}
	return matches, nil
}

// checkOnBranch verifies hash is reachable from branch. Callers must hold r.mu.
func (r *Repository) checkOnBranch(ref string, hash plumbing.Hash, branch string) error {
	set, err := r.branchAncestors(branch)
	if err != nil {
		return &BranchMismatchError{Ref: ref, Hash: hash.String(), Branch: branch, Reason: err.Error()}
	}
	if _, ok := set[hash]; !ok {
		return &BranchMismatchError{Ref: ref, Hash: hash.String(), Branch: branch}
	}
	return nil
}

// branchAncestors returns the set of commits reachable from the branch tip.
// Local branches are preferred; origin's remote-tracking branch is the fallback.
// Results are cached per tip, so a moved branch is walked again.
func (r *Repository) branchAncestors(branch string) (map[plumbing.Hash]struct{}, error) {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		ref, err = r.repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	}
	if err != nil {
		return nil, fmt.Errorf("branch %q not found", branch)
	}
	if set, ok := r.reachable[ref.Hash()]; ok {
		return set, nil
	}

	set, err := r.ancestors(ref.Hash())
	if err != nil {
		return nil, err
	}
	r.reachable[ref.Hash()] = set
	return set, nil
}

// ancestors returns tip and every commit reachable from it.
func (r *Repository) ancestors(tip plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	set := make(map[plumbing.Hash]struct{})
	stack := []plumbing.Hash{tip}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := set[h]; seen {
			continue
		}
		c, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("reading commit %s: %w", h, err)
		}
		set[h] = struct{}{}
		stack = append(stack, c.ParentHashes...)
	}
	return set, nil
}

// RevList returns the full hashes of non-merge commits reachable from end but
// not from start, newest first by committer time. Both arguments should
// already be normalized with ResolveHash.
func (r *Repository) RevList(ctx context.Context, start, end string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startHash := plumbing.NewHash(start)
	endHash := plumbing.NewHash(end)

	excluded, err := r.ancestors(startHash)
	if err != nil {
		return nil, &CommitLookupError{Ref: start, Err: err}
	}

	var commits []*object.Commit
	seen := make(map[plumbing.Hash]struct{})
	stack := []plumbing.Hash{endHash}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, skip := excluded[h]; skip {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}

		c, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, &CommitLookupError{Ref: h.String(), Err: err}
		}
		if c.NumParents() <= 1 {
			commits = append(commits, c)
		}
		stack = append(stack, c.ParentHashes...)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Committer.When.After(commits[j].Committer.When)
	})

	hashes := make([]string, len(commits))
	for i, c := range commits {
		hashes[i] = c.Hash.String()
	}

	r.logger.Debug("computed revision list",
		slog.String("start", start),
		slog.String("end", end),
		slog.Int("commits", len(hashes)),
	)
	return hashes, nil
}

// Commit returns the metadata of the commit identified by ref.
func (r *Repository) Commit(ctx context.Context, ref string) (CommitInfo, error) {
	if err := ctx.Err(); err != nil {
		return CommitInfo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	hash, err := r.resolve(strings.TrimSpace(ref))
	if err != nil {
		return CommitInfo{}, err
	}
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, &CommitLookupError{Ref: ref, Err: err}
	}

	return commitInfo(c), nil
}

// RemoteURL returns the first configured URL of the named remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("getting remote %q: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}

func commitInfo(c *object.Commit) CommitInfo {
	full := c.Hash.String()
	title, trailers := splitMessage(c.Message)
	return CommitInfo{
		Hash:        full,
		ShortHash:   full[:ShortHashLength],
		Date:        c.Author.When.Format("2006-01-02"),
		Title:       title,
		Trailers:    trailers,
		ParentCount: c.NumParents(),
	}
}
