package changelog

import (
	"errors"
	"fmt"

	"github.com/repokit/repokit/internal/git"
)

// Source control errors surface unchanged through this package.
type (
	CommitLookupError   = git.CommitLookupError
	AmbiguousHashError  = git.AmbiguousHashError
	BranchMismatchError = git.BranchMismatchError
)

// VersionFormatError is returned when a tag is not of the form vX.Y.Z.
type VersionFormatError struct {
	Tag string
}

func (e *VersionFormatError) Error() string {
	return fmt.Sprintf("invalid version %q: expected format \"(v)x.y.z\"", e.Tag)
}

// RevertResolutionError is returned when a revert commit does not name the
// short hash of the commit it reverts.
type RevertResolutionError struct {
	Hash    string
	Summary string
}

func (e *RevertResolutionError) Error() string {
	return fmt.Sprintf("commit %s: could not find reverted hash in summary %q", e.Hash, e.Summary)
}

// ReasonMissingLastHash is the FrontmatterError reason for a document with no
// last-hash and no start hash override.
const ReasonMissingLastHash = "no property named '" + KeyLastHash + "'"

// FrontmatterError is returned for a missing or malformed metadata block.
type FrontmatterError struct {
	Path   string
	Reason string
}

func (e *FrontmatterError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: invalid frontmatter: %s", e.Path, e.Reason)
	}
	return "invalid frontmatter: " + e.Reason
}

// MarkerError is returned when the generated section markers are missing,
// duplicated, or out of order.
type MarkerError struct {
	Path   string
	Marker string
	Reason string
}

func (e *MarkerError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: marker %s %s", e.Path, e.Marker, e.Reason)
	}
	return fmt.Sprintf("marker %s %s", e.Marker, e.Reason)
}

// TemplateError is returned when a release template is missing or invalid.
type TemplateError struct {
	Name string
	Dir  string
	Err  error
}

func (e *TemplateError) Error() string {
	if e.Dir != "" {
		return fmt.Sprintf("template %s in %s: %v", e.Name, e.Dir, e.Err)
	}
	return fmt.Sprintf("template %s: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// withPath fills in the document path on frontmatter and marker errors.
func withPath(err error, path string) error {
	var fmErr *FrontmatterError
	if errors.As(err, &fmErr) && fmErr.Path == "" {
		fmErr.Path = path
	}
	var markerErr *MarkerError
	if errors.As(err, &markerErr) && markerErr.Path == "" {
		markerErr.Path = path
	}
	return err
}
