package changelog

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultTag is the base version used when neither the command line nor the
// frontmatter names one.
const DefaultTag = "v0.0.1"

var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)$`)

// NextVersion bumps tag according to the most significant bit of rank and
// resets every less significant component. A zero rank returns tag unchanged.
func NextVersion(tag string, rank Rank) (string, error) {
	m := versionPattern.FindStringSubmatch(tag)
	if m == nil {
		return "", &VersionFormatError{Tag: tag}
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return "", &VersionFormatError{Tag: tag}
		}
		parts[i] = n
	}
	major, minor, patch := parts[0], parts[1], parts[2]

	switch rank.Highest() {
	case BreakingChange:
		return fmt.Sprintf("v%d.0.0", major+1), nil
	case Minor:
		return fmt.Sprintf("v%d.%d.0", major, minor+1), nil
	case Patch:
		return fmt.Sprintf("v%d.%d.%d", major, minor, patch+1), nil
	default:
		return tag, nil
	}
}
