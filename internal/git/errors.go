package git

import (
	"fmt"
	"strings"
)

// CommitLookupError is returned when a commit identifier cannot be found.
type CommitLookupError struct {
	Ref string
	Err error
}

func (e *CommitLookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("commit %q not found: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("commit %q not found", e.Ref)
}

func (e *CommitLookupError) Unwrap() error {
	return e.Err
}

// AmbiguousHashError is returned when a short hash matches several commits.
type AmbiguousHashError struct {
	Ref        string
	Candidates []string
}

func (e *AmbiguousHashError) Error() string {
	return fmt.Sprintf("short hash %q is ambiguous (matches %s)", e.Ref, strings.Join(e.Candidates, ", "))
}

// BranchMismatchError is returned when a commit is not reachable from the
// required branch, or the branch itself does not exist.
type BranchMismatchError struct {
	Ref    string
	Hash   string
	Branch string
	Reason string
}

func (e *BranchMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("commit %q (%s) cannot be checked against branch %q: %s", e.Ref, e.Hash, e.Branch, e.Reason)
	}
	return fmt.Sprintf("commit %q (%s) is not on branch %q", e.Ref, e.Hash, e.Branch)
}
