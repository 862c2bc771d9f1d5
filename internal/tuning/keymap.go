package tuning

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Defaults used by DefaultMap, matching the conventional keymap centred on
// MIDI key 60 with A4 (key 69) at 440 Hz.
const (
	LowestKey            = 0
	HighestKey           = 127
	DefaultMiddleNote    = 60
	DefaultReferenceNote = 69
	DefaultFrequency     = 440.0

	keymapHeaderLines = 7
	unmappedToken     = "x"
)

// Degree is a single keymap entry: either a scale degree or the unmapped
// marker. The zero value is unmapped.
type Degree struct {
	index  int
	mapped bool
}

// Mapped returns an entry pointing at scale degree index.
func Mapped(index int) Degree {
	return Degree{index: index, mapped: true}
}

// Unmapped returns an entry for a key that must stay silent.
func Unmapped() Degree {
	return Degree{}
}

// Index returns the scale degree and whether the entry is mapped at all.
func (d Degree) Index() (int, bool) {
	return d.index, d.mapped
}

// IsMapped reports whether the entry points at a scale degree.
func (d Degree) IsMapped() bool {
	return d.mapped
}

func (d Degree) String() string {
	if !d.mapped {
		return unmappedToken
	}
	return strconv.Itoa(d.index)
}

// MarshalJSON encodes unmapped entries as null.
func (d Degree) MarshalJSON() ([]byte, error) {
	if !d.mapped {
		return []byte("null"), nil
	}
	return json.Marshal(d.index)
}

// UnmarshalJSON accepts null, an integer, or the string "x".
func (d *Degree) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `"`+unmappedToken+`"` {
		*d = Unmapped()
		return nil
	}
	var index int
	if err := json.Unmarshal(data, &index); err != nil {
		return &ParseError{Token: s, Want: "scale degree"}
	}
	*d = Mapped(index)
	return nil
}

// Keymap assigns keyboard keys to scale degrees. Mapping repeats every Size
// keys, starting at MiddleNote.
type Keymap struct {
	Size          int      `json:"size"`
	FirstNote     int      `json:"first_note"`
	LastNote      int      `json:"last_note"`
	MiddleNote    int      `json:"middle_note"`
	ReferenceNote int      `json:"reference_note"`
	Frequency     float64  `json:"frequency"`
	FormalOctave  int      `json:"formal_octave"`
	Mapping       []Degree `json:"mapping"`
}

// ParseKeymap decodes a keymap document.
//
// After dropping "!" comment lines, the first seven lines are: map size,
// first key, last key, middle key, reference key, reference frequency and
// formal octave degree. Every following non-blank line is one entry, either
// "x" or an integer scale degree.
func ParseKeymap(text string) (*Keymap, error) {
	doc, err := splitDocument(text, keymapHeaderLines, "mapping")
	if err != nil {
		return nil, err
	}

	km := &Keymap{}
	ints := []struct {
		line  int
		field string
		dst   *int
	}{
		{0, "map size", &km.Size},
		{1, "first note", &km.FirstNote},
		{2, "last note", &km.LastNote},
		{3, "middle note", &km.MiddleNote},
		{4, "reference note", &km.ReferenceNote},
		{6, "formal octave", &km.FormalOctave},
	}
	for _, f := range ints {
		if *f.dst, err = doc.headerInt(f.line, f.field); err != nil {
			return nil, err
		}
	}
	if km.Frequency, err = doc.headerFloat(5, "reference frequency"); err != nil {
		return nil, err
	}
	if km.Size < 0 {
		return nil, &FormatError{Msg: "invalid map size", Line: doc.header[0].num, Err: &ParseError{Token: strconv.Itoa(km.Size), Want: "non-negative integer"}}
	}

	km.Mapping = make([]Degree, 0, len(doc.tail))
	for _, l := range doc.tail {
		if strings.TrimSpace(l.text) == unmappedToken {
			km.Mapping = append(km.Mapping, Unmapped())
			continue
		}
		index, err := parseInteger(l.text)
		if err != nil {
			return nil, &FormatError{Msg: "invalid mapping entry", Line: l.num, Err: err}
		}
		km.Mapping = append(km.Mapping, Mapped(index))
	}

	if err := doc.checkCount(km.Size, "keys in mapping"); err != nil {
		return nil, err
	}
	return km, nil
}

// DefaultMap returns the identity keymap of the given size over the whole
// key range: entry i maps to scale degree i.
func DefaultMap(size int) *Keymap {
	if size < 0 {
		size = 0
	}
	mapping := make([]Degree, size)
	for i := range mapping {
		mapping[i] = Mapped(i)
	}
	return &Keymap{
		Size:          size,
		FirstNote:     LowestKey,
		LastNote:      HighestKey,
		MiddleNote:    DefaultMiddleNote,
		ReferenceNote: DefaultReferenceNote,
		Frequency:     DefaultFrequency,
		FormalOctave:  size,
		Mapping:       mapping,
	}
}
