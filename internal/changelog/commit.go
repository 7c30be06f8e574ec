package changelog

import (
	"regexp"
	"strings"

	"github.com/repokit/repokit/internal/git"
)

var (
	// titlePattern matches "<3-letter stem><flag> <summary>".
	titlePattern   = regexp.MustCompile(`^[a-z]{3}([!^~=?])\s(.*)$`)
	verbPattern    = regexp.MustCompile(`^([A-Za-z]+)(?:\s|$)`)
	trailerPattern = regexp.MustCompile(`^([^:]+):\s+(.+)$`)
	revertPattern  = regexp.MustCompile(`(?i)^Revert\s+([0-9a-f]{4,40})$`)
)

// ParseCommit classifies the raw metadata of one commit.
func ParseCommit(info git.CommitInfo) CommitRecord {
	flag, summary := parseTitle(info.Title)
	verb := parseVerb(summary)

	return CommitRecord{
		LongHash:  info.Hash,
		ShortHash: info.ShortHash,
		Date:      info.Date,
		Semver:    flag,
		Category:  categoryFor(verb),
		Verb:      verb,
		Summary:   summary,
		Trailers:  parseTrailers(info.Trailers),
		IsRevert:  verb == "revert",
	}
}

// parseTitle splits a title into its semver flag and summary. A title that
// does not follow the stem+flag grammar is kept whole as the summary.
func parseTitle(title string) (SemverFlag, string) {
	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return Unknown, title
	}
	return ParseFlag(m[1]), m[2]
}

// parseVerb returns the lowercased first word of summary, or "" when that
// word is not purely letters.
func parseVerb(summary string) string {
	m := verbPattern.FindStringSubmatch(summary)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// ParseFlag maps a flag character to its semver impact.
func ParseFlag(flag string) SemverFlag {
	switch flag {
	case "!":
		return BreakingChange
	case "^":
		return Minor
	case "~":
		return Patch
	case "=":
		return NoChange
	default:
		return Unknown
	}
}

func parseTrailers(lines []string) []Trailer {
	var trailers []Trailer
	for _, line := range lines {
		m := trailerPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, value := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		trailers = append(trailers, Trailer{Key: key, Value: value})
	}
	return trailers
}

// RevertedHash returns the lowercased short hash a revert commit names in its
// summary ("Revert a1b2c3d").
func RevertedHash(c CommitRecord) (string, error) {
	m := revertPattern.FindStringSubmatch(strings.TrimSpace(c.Summary))
	if m == nil {
		return "", &RevertResolutionError{Hash: c.LongHash, Summary: c.Summary}
	}
	return strings.ToLower(m[1]), nil
}
