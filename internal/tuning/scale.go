package tuning

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	scaleHeaderLines = 2
	// scaleNoteDecimals is the precision the scale writer uses for cents.
	scaleNoteDecimals = 5
	scaleLineEnding   = "\r\n"
)

// Scale is a decoded scale document: a description and the cents offset of
// every degree above 1/1. The last note is the repeat ("octave") interval.
type Scale struct {
	Description string    `json:"description"`
	Notes       []float64 `json:"notes"`
}

// ParseScale decodes a scale document.
//
// Comment lines start with "!". The first remaining line is the description,
// the second the note count, and every later non-blank line one pitch token.
func ParseScale(text string) (*Scale, error) {
	doc, err := splitDocument(text, scaleHeaderLines, "scale")
	if err != nil {
		return nil, err
	}

	count, err := doc.headerInt(1, "note count")
	if err != nil {
		return nil, err
	}

	notes := make([]float64, 0, len(doc.tail))
	for _, l := range doc.tail {
		cents, err := ParseInterval(l.text)
		if err != nil {
			return nil, &FormatError{Msg: "invalid note", Line: l.num, Err: err}
		}
		notes = append(notes, cents)
	}

	if err := doc.checkCount(count, "notes in scale"); err != nil {
		return nil, err
	}

	return &Scale{
		Description: doc.header[0].text,
		Notes:       notes,
	}, nil
}

// Octave returns the repeat interval in cents, or 0 for an empty scale.
func (s *Scale) Octave() float64 {
	if len(s.Notes) == 0 {
		return 0
	}
	return s.Notes[len(s.Notes)-1]
}

// Format renders the scale as a scale document named name.scl, with every
// note written as cents. The description and name must each fit on one line,
// and the description must not start with the comment prefix; otherwise the
// document would not decode back to s.
func (s *Scale) Format(name string) (string, error) {
	if strings.ContainsAny(name, "\r\n") {
		return "", &FormatError{Msg: "invalid scale name", Err: &ParseError{Token: name, Want: "single-line name"}}
	}
	if strings.ContainsAny(s.Description, "\r\n") || strings.HasPrefix(s.Description, commentPrefix) {
		return "", &FormatError{Msg: "invalid description", Err: &ParseError{Token: s.Description, Want: "single-line description not starting with \"!\""}}
	}
	for i, n := range s.Notes {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", &FormatError{Msg: fmt.Sprintf("invalid note %d", i+1), Err: &ParseError{Token: strconv.FormatFloat(n, 'f', -1, 64)}}
		}
	}

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString(scaleLineEnding)
	}

	writeLine(commentPrefix + " " + name + ".scl")
	writeLine(commentPrefix)
	writeLine(s.Description)
	writeLine(strconv.Itoa(len(s.Notes)))
	writeLine(commentPrefix)
	for _, n := range s.Notes {
		writeLine(strconv.FormatFloat(n, 'f', scaleNoteDecimals, 64))
	}
	return b.String(), nil
}
