package changelog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/repokit/repokit/internal/git"
)

// fakeSource is an in-memory Source. Commits are added newest first, which
// is also the order RevList returns them in.
type fakeSource struct {
	mu      sync.Mutex
	commits map[string]git.CommitInfo
	revs    []string
	// extra commits resolvable by hash but outside the range.
	outside map[string]git.CommitInfo
	calls   []string
	failOn  string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		commits: make(map[string]git.CommitInfo),
		outside: make(map[string]git.CommitInfo),
	}
}

func fakeHash(seed string) string {
	sum := sha1.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// add appends a commit to the end of the range (the next older commit).
func (f *fakeSource) add(title string, trailers ...string) string {
	hash := fakeHash(fmt.Sprintf("%d:%s", len(f.revs), title))
	f.commits[hash] = git.CommitInfo{
		Hash:      hash,
		ShortHash: hash[:git.ShortHashLength],
		Date:      fmt.Sprintf("2024-03-%02d", 28-len(f.revs)),
		Title:     title,
		Trailers:  trailers,
	}
	f.revs = append(f.revs, hash)
	return hash
}

// addOutside registers a commit that resolves but is not part of the range.
func (f *fakeSource) addOutside(title string) string {
	hash := fakeHash("outside:" + title)
	f.outside[hash] = git.CommitInfo{Hash: hash, ShortHash: hash[:git.ShortHashLength], Title: title}
	return hash
}

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSource) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeSource) lookup(ref string) (git.CommitInfo, error) {
	var matches []git.CommitInfo
	for _, set := range []map[string]git.CommitInfo{f.commits, f.outside} {
		for h, info := range set {
			if strings.HasPrefix(h, strings.ToLower(ref)) {
				matches = append(matches, info)
			}
		}
	}
	switch len(matches) {
	case 0:
		return git.CommitInfo{}, &git.CommitLookupError{Ref: ref}
	case 1:
		return matches[0], nil
	default:
		return git.CommitInfo{}, &git.AmbiguousHashError{Ref: ref}
	}
}

func (f *fakeSource) RevList(_ context.Context, start, end string) ([]string, error) {
	f.record("revlist " + start + ".." + end)
	return append([]string(nil), f.revs...), nil
}

func (f *fakeSource) ResolveHash(_ context.Context, ref, branch string, checkBranch bool) (string, error) {
	f.record(fmt.Sprintf("resolve %s %s %t", ref, branch, checkBranch))
	info, err := f.lookup(ref)
	if err != nil {
		return "", err
	}
	return info.Hash, nil
}

func (f *fakeSource) Commit(_ context.Context, ref string) (git.CommitInfo, error) {
	f.record("commit " + ref)
	if f.failOn != "" && ref == f.failOn {
		return git.CommitInfo{}, &git.CommitLookupError{Ref: ref}
	}
	return f.lookup(ref)
}

// summaries returns the summaries of every commit in a category, in order.
func summaries(v *View, title string) []string {
	for _, c := range v.Categories {
		if c.Title == title {
			out := make([]string, len(c.Commits))
			for i, rec := range c.Commits {
				out[i] = rec.Summary
			}
			return out
		}
	}
	return nil
}

func titles(v *View) []string {
	out := make([]string, len(v.Categories))
	for i, c := range v.Categories {
		out[i] = c.Title
	}
	return out
}
