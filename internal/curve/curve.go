// Package curve renders a scale and keymap into a 16-bit pitch curve: one
// little-endian fixed-point pitch per MIDI key, 256 units per semitone.
package curve

import (
	"encoding/binary"
	"math"

	"github.com/Conceptual-Machines/tuning-api/internal/tuning"
)

const (
	// Keys is the number of MIDI keys covered by a curve.
	Keys = 128
	// Size is the encoded curve length in bytes.
	Size = Keys * 2

	// ReferenceKey sounds at ReferenceUnits in the default tuning.
	ReferenceKey     = 60
	ReferenceUnits   = 0x7c00
	UnitsPerSemitone = 0x100
	CentsPerSemitone = 100

	// MinUnits doubles as the silence value for unmapped keys.
	MinUnits = 0
	MaxUnits = 0xffff
)

// Curve is an encoded pitch curve.
type Curve [Size]byte

// Bytes returns the curve as a byte slice.
func (c *Curve) Bytes() []byte {
	return c[:]
}

// Units returns the pitch value stored for key.
func (c *Curve) Units(key int) uint16 {
	return binary.LittleEndian.Uint16(c[key*2:])
}

// Generate computes the pitch of every key.
//
// Keys outside [keymap.FirstNote, keymap.LastNote] get the 12-tone equal
// tempered default. Keys inside repeat the keymap every keymap.Size keys from
// keymap.MiddleNote; each repetition shifts the mapped degree by one scale
// octave (the last note of the scale). centsOffset transposes mapped keys.
func Generate(scale *tuning.Scale, keymap *tuning.Keymap, centsOffset float64) Curve {
	var c Curve
	for key := 0; key < Keys; key++ {
		var units int
		if key >= keymap.FirstNote && key <= keymap.LastNote {
			units = mappedUnits(scale, keymap, key, centsOffset)
		} else {
			units = defaultUnits(key)
		}
		binary.LittleEndian.PutUint16(c[key*2:], uint16(clamp(units)))
	}
	return c
}

func defaultUnits(key int) int {
	return ReferenceUnits + (key-ReferenceKey)*UnitsPerSemitone
}

func mappedUnits(scale *tuning.Scale, keymap *tuning.Keymap, key int, centsOffset float64) int {
	n := len(scale.Notes)
	if keymap.Size <= 0 || n == 0 {
		return MinUnits
	}

	offset := key - 1 - keymap.MiddleNote
	octave := floorDiv(offset, keymap.Size)
	mapIndex := modulo(offset+1, keymap.Size)
	if mapIndex >= len(keymap.Mapping) {
		return MinUnits
	}

	scaleIndex, ok := keymap.Mapping[mapIndex].Index()
	if !ok {
		return MinUnits
	}

	cents := scale.Notes[modulo(scaleIndex-1, n)] + float64(octave)*scale.Octave() + centsOffset
	units := ReferenceUnits + roundHalfUp(cents*UnitsPerSemitone/CentsPerSemitone)
	switch {
	case math.IsNaN(units):
		return MinUnits
	case units < MinUnits:
		return MinUnits
	case units > MaxUnits:
		return MaxUnits
	}
	return int(units)
}

// roundHalfUp rounds halves towards positive infinity, so -0.5 becomes 0.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(x, y int) int {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

// modulo returns x mod y in [0, y) for positive y.
func modulo(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}

func clamp(units int) int {
	return max(MinUnits, min(MaxUnits, units))
}
