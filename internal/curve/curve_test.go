package curve

import (
	"testing"

	"github.com/Conceptual-Machines/tuning-api/internal/tuning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twelveTET() *tuning.Scale {
	return &tuning.Scale{
		Description: "12-TET",
		Notes:       []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100, 1200},
	}
}

func TestGenerate_Size(t *testing.T) {
	c := Generate(twelveTET(), tuning.DefaultMap(12), 0)
	assert.Len(t, c.Bytes(), 256)
}

func TestGenerate_TwelveTETMatchesDefaultTuning(t *testing.T) {
	c := Generate(twelveTET(), tuning.DefaultMap(12), 0)

	for key := 0; key < Keys; key++ {
		assert.Equal(t, uint16(defaultUnits(key)), c.Units(key), "key %d", key)
	}
	assert.Equal(t, uint16(0x7c00), c.Units(60))
	assert.Equal(t, uint16(0x100), c.Units(61)-c.Units(60))
}

func TestGenerate_LittleEndian(t *testing.T) {
	c := Generate(twelveTET(), tuning.DefaultMap(12), 0)
	b := c.Bytes()

	// key 60 = 0x7c00, key 61 = 0x7d00
	assert.Equal(t, byte(0x00), b[120])
	assert.Equal(t, byte(0x7c), b[121])
	assert.Equal(t, byte(0x00), b[122])
	assert.Equal(t, byte(0x7d), b[123])
}

func TestGenerate_UnisonLeadingScale(t *testing.T) {
	// With 1/1 listed as the first note, degree 1 is the unison and the
	// octave boundary falls one key later.
	scale := &tuning.Scale{Notes: []float64{0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100, 1200}}
	c := Generate(scale, tuning.DefaultMap(13), 0)

	assert.Equal(t, uint16(0x7c00), c.Units(60))
	assert.Equal(t, uint16(0x7c00), c.Units(61))
	assert.Equal(t, uint16(0x100), c.Units(62)-c.Units(61))
	assert.Equal(t, uint16(0x7c00+12*0x100), c.Units(73))
}

func TestGenerate_CentsOffset(t *testing.T) {
	base := Generate(twelveTET(), tuning.DefaultMap(12), 0)
	shifted := Generate(twelveTET(), tuning.DefaultMap(12), 50)

	for key := 10; key < 110; key++ {
		assert.Equal(t, base.Units(key)+0x80, shifted.Units(key), "key %d", key)
	}
}

func TestGenerate_RoundsHalfUp(t *testing.T) {
	scale := &tuning.Scale{Notes: []float64{1200}}

	// 0.1953125 cents = 0.5 units
	c := Generate(scale, tuning.DefaultMap(1), 0.1953125)
	assert.Equal(t, uint16(0x7c01), c.Units(60))

	c = Generate(scale, tuning.DefaultMap(1), -0.1953125)
	assert.Equal(t, uint16(0x7c00), c.Units(60))
}

func TestGenerate_NonOctaveScale(t *testing.T) {
	// Bohlen-Pierce style: 13 steps to a 3/1 tritave.
	notes := make([]float64, 13)
	tritave := tuning.RatioToCents(3, 1)
	for i := range notes {
		notes[i] = tritave * float64(i+1) / 13
	}
	scale := &tuning.Scale{Notes: notes}
	c := Generate(scale, tuning.DefaultMap(13), 0)

	assert.Equal(t, uint16(0x7c00), c.Units(60))
	// one repetition up lands exactly on the tritave
	expected := 0x7c00 + int(roundHalfUp(tritave*UnitsPerSemitone/CentsPerSemitone))
	assert.Equal(t, uint16(expected), c.Units(73))
	// and one repetition down on its inverse
	expected = 0x7c00 + int(roundHalfUp(-tritave*UnitsPerSemitone/CentsPerSemitone))
	assert.Equal(t, uint16(expected), c.Units(47))
}

func TestGenerate_UnmappedKeysAreSilent(t *testing.T) {
	keymap := &tuning.Keymap{
		Size:       2,
		FirstNote:  0,
		LastNote:   127,
		MiddleNote: 60,
		Mapping:    []tuning.Degree{tuning.Mapped(0), tuning.Unmapped()},
	}

	for _, offset := range []float64{0, 1200, -4800, 1e6} {
		c := Generate(twelveTET(), keymap, offset)
		for key := 0; key < Keys; key++ {
			if modulo(key-keymap.MiddleNote, 2) == 1 {
				assert.Equal(t, uint16(0), c.Units(key), "key %d offset %v", key, offset)
			}
		}
	}
}

func TestGenerate_OutsideRangeUsesDefaultTuning(t *testing.T) {
	weird := &tuning.Scale{Notes: []float64{13, 17, 777}}
	keymap := tuning.DefaultMap(3)
	keymap.FirstNote = 48
	keymap.LastNote = 72

	c := Generate(weird, keymap, 333)
	for key := 0; key < Keys; key++ {
		if key < 48 || key > 72 {
			assert.Equal(t, uint16(defaultUnits(key)), c.Units(key), "key %d", key)
		}
	}
	assert.NotEqual(t, uint16(defaultUnits(61)), c.Units(61))
}

func TestGenerate_Clamps(t *testing.T) {
	c := Generate(twelveTET(), tuning.DefaultMap(12), 1e6)
	for key := 0; key < Keys; key++ {
		assert.Equal(t, uint16(MaxUnits), c.Units(key), "key %d", key)
	}

	c = Generate(twelveTET(), tuning.DefaultMap(12), -1e6)
	for key := 0; key < Keys; key++ {
		assert.Equal(t, uint16(MinUnits), c.Units(key), "key %d", key)
	}
}

func TestGenerate_ClampsPartially(t *testing.T) {
	// A very wide "octave" pushes the extremes of the keyboard out of range.
	scale := &tuning.Scale{Notes: []float64{2400}}
	c := Generate(scale, tuning.DefaultMap(1), 0)

	assert.Equal(t, uint16(0x7c00), c.Units(60))
	assert.Equal(t, uint16(0x7c00+24*0x100), c.Units(61))
	assert.Equal(t, uint16(MinUnits), c.Units(0))
	assert.Equal(t, uint16(MaxUnits), c.Units(127))
}

func TestGenerate_DegenerateInputsAreSilent(t *testing.T) {
	empty := &tuning.Scale{}
	c := Generate(empty, tuning.DefaultMap(0), 0)
	for key := 0; key < Keys; key++ {
		assert.Equal(t, uint16(0), c.Units(key))
	}

	short := &tuning.Keymap{Size: 4, LastNote: 127, MiddleNote: 60, Mapping: []tuning.Degree{tuning.Mapped(1)}}
	c = Generate(twelveTET(), short, 0)
	assert.Equal(t, uint16(0), c.Units(62))
}

func TestGenerate_Deterministic(t *testing.T) {
	km, err := tuning.ParseKeymap("5\n0\n127\n64\n69\n440\n5\n1\n2\nx\n4\n5\n")
	require.NoError(t, err)

	a := Generate(twelveTET(), km, 12.5)
	b := Generate(twelveTET(), km, 12.5)
	assert.Equal(t, a, b)
}

func TestFloorDivAndModulo(t *testing.T) {
	tests := []struct {
		x, y, div, mod int
	}{
		{7, 12, 0, 7},
		{-1, 12, -1, 11},
		{-12, 12, -1, 0},
		{-13, 12, -2, 11},
		{24, 12, 2, 0},
		{-61, 12, -6, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.div, floorDiv(tt.x, tt.y), "floorDiv(%d, %d)", tt.x, tt.y)
		assert.Equal(t, tt.mod, modulo(tt.x, tt.y), "modulo(%d, %d)", tt.x, tt.y)
	}
}
