package git

import (
	"regexp"
	"strings"
)

// trailerLine matches the "Key:" start of a trailer; the value may be empty.
var trailerLine = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*:`)

// splitMessage returns the subject (first paragraph joined onto one line) and
// the lines of the trailer block. The trailer block is the final paragraph
// after the subject when every line in it starts a trailer or continues one.
func splitMessage(message string) (string, []string) {
	paragraphs := paragraphsOf(message)
	if len(paragraphs) == 0 {
		return "", nil
	}

	subject := strings.Join(trimAll(paragraphs[0]), " ")
	if len(paragraphs) < 2 {
		return subject, nil
	}

	return subject, trailerBlock(paragraphs[len(paragraphs)-1])
}

func paragraphsOf(message string) [][]string {
	message = strings.ReplaceAll(message, "\r\n", "\n")

	var paragraphs [][]string
	var current []string
	for _, line := range strings.Split(message, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs
}

func trimAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

func trailerBlock(lines []string) []string {
	var trailers []string
	for _, line := range lines {
		if line[0] == ' ' || line[0] == '\t' {
			if len(trailers) == 0 {
				return nil
			}
			trailers[len(trailers)-1] += " " + strings.TrimSpace(line)
			continue
		}
		if !trailerLine.MatchString(line) {
			return nil
		}
		trailers = append(trailers, line)
	}
	return trailers
}
