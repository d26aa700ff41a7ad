package swagger

import (
	"strings"
)

// ExtraMarker separates the description from a trailing structured-data
// block in handler documentation.
const ExtraMarker = "---"

// Docstring is handler documentation split into its parts.
type Docstring struct {
	Summary     string
	Description string
	// Extra is the raw text after the ExtraMarker line, if any.
	Extra string
}

// ParseDocstring splits handler documentation. The first line is the
// summary. The remaining lines, with leading whitespace trimmed and runs of
// blank lines collapsed to one, form the description up to an ExtraMarker
// line; whatever follows the marker is Extra. Empty input yields a zero
// Docstring.
func ParseDocstring(doc string) Docstring {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return Docstring{}
	}

	summary, rest, _ := strings.Cut(doc, "\n")
	out := Docstring{Summary: strings.TrimSpace(summary)}

	lines := collapseBlankLines(strings.Split(strings.TrimLeft(rest, " \t\r\n"), "\n"))
	for i, line := range lines {
		if strings.TrimSpace(line) == ExtraMarker {
			out.Extra = strings.Trim(strings.Join(lines[i+1:], "\n"), "\n")
			lines = lines[:i]
			break
		}
	}

	out.Description = strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
	return out
}

// collapseBlankLines reduces every run of blank lines to a single empty
// line.
func collapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return out
}
