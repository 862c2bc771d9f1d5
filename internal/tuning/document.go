package tuning

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// commentPrefix marks a line with no data in both the scale and keymap formats.
const commentPrefix = "!"

// sourceLine is a non-comment line together with its position in the input.
type sourceLine struct {
	num  int
	text string
}

// document is a decoded text file: a fixed number of positional header lines
// followed by a variable-length list of non-blank entries.
type document struct {
	header []sourceLine
	tail   []sourceLine
}

// semanticLines drops comment lines and strips the carriage return left by
// CRLF line endings. Blank lines are kept so header positions stay intact.
func semanticLines(text string) []sourceLine {
	raw := strings.Split(text, "\n")
	lines := make([]sourceLine, 0, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.HasPrefix(l, commentPrefix) {
			continue
		}
		lines = append(lines, sourceLine{num: i + 1, text: l})
	}
	return lines
}

// splitDocument filters text to semantic lines and splits off headerLen
// header lines. Blank lines after the header are not entries.
func splitDocument(text string, headerLen int, kind string) (*document, error) {
	lines := semanticLines(text)
	if len(lines) < headerLen {
		return nil, &FormatError{
			Msg: fmt.Sprintf("invalid %s file: expected at least %d non-comment lines, found %d", kind, headerLen, len(lines)),
		}
	}

	doc := &document{header: lines[:headerLen]}
	for _, l := range lines[headerLen:] {
		if strings.TrimSpace(l.text) == "" {
			continue
		}
		doc.tail = append(doc.tail, l)
	}
	return doc, nil
}

// checkCount validates the tail length against the count declared in the header.
func (d *document) checkCount(declared int, what string) error {
	if len(d.tail) != declared {
		return &FormatError{
			Msg: fmt.Sprintf("wrong number of %s: declared %d, found %d", what, declared, len(d.tail)),
		}
	}
	return nil
}

// headerInt decodes header line i as a decimal integer.
func (d *document) headerInt(i int, field string) (int, error) {
	l := d.header[i]
	n, err := parseInteger(l.text)
	if err != nil {
		return 0, &FormatError{Msg: "invalid " + field, Line: l.num, Err: err}
	}
	return n, nil
}

// headerFloat decodes the leading decimal number of header line i.
func (d *document) headerFloat(i int, field string) (float64, error) {
	l := d.header[i]
	token := strings.TrimSpace(l.text)
	f, err := strconv.ParseFloat(leadingNumber.FindString(token), 64)
	if err != nil {
		return 0, &FormatError{Msg: "invalid " + field, Line: l.num, Err: &ParseError{Token: token, Want: "number"}}
	}
	return f, nil
}

// Header fields and keymap entries are read by their leading number; the rest
// of the line is ignored ("12 notes", "7 ! fifth", "440.0 Hz").
var (
	leadingInteger = regexp.MustCompile(`^[+-]?\d+`)
	leadingNumber  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// parseInteger reads the leading integer of s and ignores the rest of the line.
func parseInteger(s string) (int, error) {
	token := strings.TrimSpace(s)
	n, err := strconv.Atoi(leadingInteger.FindString(token))
	if err != nil {
		return 0, &ParseError{Token: token, Want: "integer"}
	}
	return n, nil
}
