package changelog

import (
	"fmt"
	"strings"
)

// SemverFlag is the version impact a commit declares in its title.
type SemverFlag int

const (
	// Unknown is used for titles with a "?" flag or no recognizable flag.
	Unknown SemverFlag = iota
	// NoChange commits ("=") are left out of the changelog entirely.
	NoChange
	Patch
	Minor
	BreakingChange
)

// String returns the lowercase name of the flag.
func (f SemverFlag) String() string {
	switch f {
	case NoChange:
		return "no change"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case BreakingChange:
		return "breaking change"
	default:
		return "unknown"
	}
}

// Label returns the markdown label rendered in front of a changelog entry.
func (f SemverFlag) Label() string {
	switch f {
	case NoChange:
		return ""
	case Patch:
		return "*Patch*"
	case Minor:
		return "*Minor*"
	case BreakingChange:
		return "**BREAKING CHANGE**"
	default:
		return "*Unknown Change*"
	}
}

// Rank returns the bit the flag contributes to a release's cumulative rank.
func (f SemverFlag) Rank() Rank {
	switch f {
	case BreakingChange:
		return RankBreaking
	case Minor:
		return RankMinor
	case Patch:
		return RankPatch
	default:
		return 0
	}
}

// Rank is a 3-bit mask of version impacts. A release's rank is the bitwise
// OR of the ranks of every commit it contains.
type Rank uint8

const (
	RankPatch Rank = 1 << iota
	RankMinor
	RankBreaking
)

// Highest returns the most significant flag set in r, or Unknown for zero.
func (r Rank) Highest() SemverFlag {
	switch {
	case r&RankBreaking != 0:
		return BreakingChange
	case r&RankMinor != 0:
		return Minor
	case r&RankPatch != 0:
		return Patch
	default:
		return Unknown
	}
}

// Changelog categories in the order they are rendered.
const (
	CategoryAdded        = "Added"
	CategoryRewritten    = "Rewritten"
	CategoryChanged      = "Changed"
	CategoryModified     = "Modified"
	CategoryRemoved      = "Removed"
	CategoryDeprecated   = "Deprecated"
	CategoryFixed        = "Fixed"
	CategorySecurity     = "Security"
	CategoryPerformance  = "Performance"
	CategoryDependencies = "Dependencies"
	CategoryOther        = "Other"
)

// Categories returns the canonical category order.
func Categories() []string {
	return []string{
		CategoryAdded,
		CategoryRewritten,
		CategoryChanged,
		CategoryModified,
		CategoryRemoved,
		CategoryDeprecated,
		CategoryFixed,
		CategorySecurity,
		CategoryPerformance,
		CategoryDependencies,
		CategoryOther,
	}
}

// Trailer is a "Key: value" line from the end of a commit message.
type Trailer struct {
	Key   string
	Value string
}

// CommitRecord is one commit parsed for the changelog.
type CommitRecord struct {
	LongHash  string
	ShortHash string
	// Date is the author date as YYYY-MM-DD.
	Date     string
	Semver   SemverFlag
	Category string
	// Verb is the lowercased leading imperative verb of the summary.
	Verb     string
	Summary  string
	Trailers []Trailer
	IsRevert bool
}

// Rank returns the record's contribution to the cumulative rank.
func (c CommitRecord) Rank() Rank {
	return c.Semver.Rank()
}

// Category is a titled group of commits in a release section.
type Category struct {
	Title   string
	Commits []CommitRecord
}

// RepoRef identifies the GitHub repository links are rendered against.
type RepoRef struct {
	Owner string
	Name  string
}

// IsZero reports whether either part of the reference is missing.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" || r.Name == ""
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the repository's web URL.
func (r RepoRef) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s", r.Owner, r.Name)
}

// TagURL returns the release page URL for tag.
func (r RepoRef) TagURL(tag string) string {
	return r.URL() + "/releases/tag/" + tag
}

// CommitURL returns the URL of a single commit.
func (r RepoRef) CommitURL(hash string) string {
	return r.URL() + "/commit/" + hash
}

// CompareURL returns the URL comparing two revisions.
func (r RepoRef) CompareURL(from, to string) string {
	return r.URL() + "/compare/" + from + "..." + to
}

// View is the render model of one release section.
type View struct {
	Repo RepoRef
	// Current is the newest commit in the range, or nil when it is empty.
	Current     *CommitRecord
	PreviousTag string
	Tag         string
	Rank        Rank
	Categories  []Category
}

// IsEmpty reports whether the view holds no commits.
func (v *View) IsEmpty() bool {
	return len(v.Categories) == 0
}

// CommitCount returns the number of commits across all categories.
func (v *View) CommitCount() int {
	n := 0
	for _, c := range v.Categories {
		n += len(c.Commits)
	}
	return n
}

// Bumped reports whether the view moves the version forward.
func (v *View) Bumped() bool {
	return v.Tag != v.PreviousTag
}

// categoryFor maps a lowercased verb to a category title.
func categoryFor(verb string) string {
	switch strings.ToLower(verb) {
	case "add":
		return CategoryAdded
	case "rewrite":
		return CategoryRewritten
	case "change":
		return CategoryChanged
	case "modify":
		return CategoryModified
	case "remove":
		return CategoryRemoved
	case "deprecate":
		return CategoryDeprecated
	case "fix":
		return CategoryFixed
	case "secure":
		return CategorySecurity
	case "improve":
		return CategoryPerformance
	case "bump", "update", "upgrade", "migrate":
		return CategoryDependencies
	default:
		return CategoryOther
	}
}
