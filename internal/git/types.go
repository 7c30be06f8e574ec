package git

// CommitInfo is the raw metadata of a single commit, in the shape of
// `git log -1 --pretty=%H%n%h%n%as%n%s%n%(trailers)`.
type CommitInfo struct {
	Hash      string
	ShortHash string
	// Date is the author date formatted as YYYY-MM-DD.
	Date  string
	Title string
	// Trailers are the raw lines of the trailer block, continuation lines folded.
	Trailers    []string
	ParentCount int
}

// IsMerge reports whether the commit has more than one parent.
func (c CommitInfo) IsMerge() bool {
	return c.ParentCount > 1
}
