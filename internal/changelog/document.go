package changelog

import (
	"fmt"
	"strings"
)

// Markers bounding the machine-owned region of the changelog.
const (
	StartMarker = "<!-- LOG_START -->"
	EndMarker   = "<!-- LOG_END -->"
)

const frontmatterDelimiter = "---"

// Document is a changelog split into the spans the generator owns and the
// hand-written content around them. String reassembles the exact input.
type Document struct {
	Frontmatter Frontmatter
	// Head runs from the end of the frontmatter through the start marker line.
	Head string
	// Generated is everything between the marker lines.
	Generated string
	// Tail runs from the end marker line to the end of the document.
	Tail string

	frontmatterRaw string
	closing        string
}

// ParseDocument splits text into its frontmatter, head, generated and tail
// spans.
func ParseDocument(text string) (*Document, error) {
	raw, closing, body, err := splitFrontmatter(text)
	if err != nil {
		return nil, err
	}

	fm, err := ParseFrontmatter(raw)
	if err != nil {
		return nil, err
	}

	startBegin, startEnd, err := findMarker(body, StartMarker)
	if err != nil {
		return nil, err
	}
	endBegin, _, err := findMarker(body, EndMarker)
	if err != nil {
		return nil, err
	}
	if endBegin < startBegin {
		return nil, &MarkerError{Marker: EndMarker, Reason: "appears before " + StartMarker}
	}

	return &Document{
		Frontmatter:    fm,
		Head:           body[:startEnd],
		Generated:      body[startEnd:endBegin],
		Tail:           body[endBegin:],
		frontmatterRaw: raw,
		closing:        closing,
	}, nil
}

// splitFrontmatter returns the text between the delimiter lines, the closing
// delimiter line itself, and the remainder of the document.
func splitFrontmatter(text string) (string, string, string, error) {
	opening := frontmatterDelimiter + "\n"
	if !strings.HasPrefix(text, opening) {
		return "", "", "", &FrontmatterError{Reason: "document does not start with a --- delimiter"}
	}

	rest := text[len(opening):]
	offset := 0
	for offset < len(rest) {
		next := len(rest)
		if i := strings.IndexByte(rest[offset:], '\n'); i >= 0 {
			next = offset + i + 1
		}
		if strings.TrimRight(rest[offset:next], " \t\r\n") == frontmatterDelimiter {
			return rest[:offset], rest[offset:next], rest[next:], nil
		}
		offset = next
	}
	return "", "", "", &FrontmatterError{Reason: "closing --- delimiter not found"}
}

// findMarker locates the single line holding marker and returns the offsets
// of its first byte and of the byte after its newline.
func findMarker(body, marker string) (int, int, error) {
	begin, end, count := -1, -1, 0
	offset := 0
	for offset < len(body) {
		lineEnd := strings.IndexByte(body[offset:], '\n')
		next := len(body)
		if lineEnd >= 0 {
			next = offset + lineEnd + 1
		}
		if strings.TrimSpace(body[offset:next]) == marker {
			if count == 0 {
				begin, end = offset, next
			}
			count++
		}
		offset = next
	}

	switch {
	case count == 0:
		return 0, 0, &MarkerError{Marker: marker, Reason: "not found on a line of its own"}
	case count > 1:
		return 0, 0, &MarkerError{Marker: marker, Reason: fmt.Sprintf("appears %d times", count)}
	}
	return begin, end, nil
}

// Patch sets the tracked frontmatter values from fm and prepends section to
// the generated span. All other bytes are left untouched.
func (d *Document) Patch(fm Frontmatter, section string) error {
	fm = d.Frontmatter.With(fm.LastHash, fm.LastTag)
	raw, err := fm.Encode()
	if err != nil {
		return err
	}
	d.Frontmatter = fm
	d.frontmatterRaw = raw
	d.Generated = section + d.Generated
	return nil
}

// String reassembles the document.
func (d *Document) String() string {
	var b strings.Builder
	b.Grow(len(d.frontmatterRaw) + len(d.closing) + len(d.Head) + len(d.Generated) + len(d.Tail) + 4)
	b.WriteString(frontmatterDelimiter + "\n")
	b.WriteString(d.frontmatterRaw)
	b.WriteString(d.closing)
	b.WriteString(d.Head)
	b.WriteString(d.Generated)
	b.WriteString(d.Tail)
	return b.String()
}

// PatchDocument parses text, applies fm and section, and returns the new
// document.
func PatchDocument(text string, fm Frontmatter, section string) (string, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return "", err
	}
	if err := doc.Patch(fm, section); err != nil {
		return "", err
	}
	return doc.String(), nil
}
