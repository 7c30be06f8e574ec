package changelog

import (
	"context"
	"fmt"
	"regexp"
)

var longHashPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// RevisionRange is the half-open range (Start, End] of non-merge commits on
// a branch, newest first.
type RevisionRange struct {
	Start  string
	End    string
	Hashes []string
}

// IsEmpty reports whether the range holds no commits.
func (r *RevisionRange) IsEmpty() bool {
	return len(r.Hashes) == 0
}

// ResolveRange normalizes both anchors, checks that they are reachable from
// branch, and lists the commits between them.
func ResolveRange(ctx context.Context, source Source, start, end, branch string) (*RevisionRange, error) {
	startHash, err := source.ResolveHash(ctx, start, branch, true)
	if err != nil {
		return nil, fmt.Errorf("resolving start of range: %w", err)
	}
	endHash, err := source.ResolveHash(ctx, end, branch, true)
	if err != nil {
		return nil, fmt.Errorf("resolving end of range: %w", err)
	}

	revs, err := source.RevList(ctx, startHash, endHash)
	if err != nil {
		return nil, fmt.Errorf("listing revisions %s..%s: %w", startHash, endHash, err)
	}

	hashes := make([]string, 0, len(revs))
	for _, h := range revs {
		if longHashPattern.MatchString(h) {
			hashes = append(hashes, h)
		}
	}

	return &RevisionRange{Start: startHash, End: endHash, Hashes: hashes}, nil
}
