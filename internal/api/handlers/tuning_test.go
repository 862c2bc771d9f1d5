package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervals(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/intervals/parse", IntervalsRequest{
		Tokens: []string{"2/1", " 3 ", "701.955"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode(t, w)
	intervals, ok := response["intervals"].([]any)
	require.True(t, ok)
	require.Len(t, intervals, 3)

	first := intervals[0].(map[string]any)
	assert.Equal(t, "2/1", first["token"])
	assert.InDelta(t, 1200.0, first["cents"], 1e-9)

	second := intervals[1].(map[string]any)
	assert.Equal(t, "3", second["token"])
	assert.InDelta(t, 1901.955, second["cents"], 1e-3)

	third := intervals[2].(map[string]any)
	assert.InDelta(t, 701.955, third["cents"], 1e-9)
}

func TestParseIntervals_InvalidToken(t *testing.T) {
	w := postJSON(t, setupTestRouter(), "/api/v1/intervals/parse", IntervalsRequest{
		Tokens: []string{"2/1", "abc"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	response := decode(t, w)
	assert.Equal(t, "abc", response["token"])
	assert.Contains(t, response["error"], "could not parse")
}

func TestParseIntervals_TooMany(t *testing.T) {
	tokens := make([]string, maxIntervalTokens+1)
	for i := range tokens {
		tokens[i] = "2/1"
	}

	w := postJSON(t, setupTestRouter(), "/api/v1/intervals/parse", IntervalsRequest{Tokens: tokens})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseIntervals_MissingTokens(t *testing.T) {
	w := postJSON(t, setupTestRouter(), "/api/v1/intervals/parse", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseScaleHandler(t *testing.T) {
	w := postJSON(t, setupTestRouter(), "/api/v1/scales/parse", DocumentRequest{Text: twelveTETText})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode(t, w)
	assert.Equal(t, "12 tone equal temperament", response["description"])
	assert.InDelta(t, 1200.0, response["octave"], 1e-9)

	notes, ok := response["notes"].([]any)
	require.True(t, ok)
	assert.Len(t, notes, 12)
}

func TestParseScaleHandler_BadNote(t *testing.T) {
	text := strings.Replace(twelveTETText, " 700.0", " seven", 1)

	w := postJSON(t, setupTestRouter(), "/api/v1/scales/parse", DocumentRequest{Text: text})
	require.Equal(t, http.StatusBadRequest, w.Code)

	response := decode(t, w)
	assert.Equal(t, float64(12), response["line"])
	assert.Equal(t, "seven", response["token"])
}

func TestParseScaleHandler_WrongCount(t *testing.T) {
	text := strings.Replace(twelveTETText, " 12\n", " 13\n", 1)

	w := postJSON(t, setupTestRouter(), "/api/v1/scales/parse", DocumentRequest{Text: text})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "wrong number of notes in scale")
}

func TestFormatScaleHandler(t *testing.T) {
	w := postJSON(t, setupTestRouter(), "/api/v1/scales/format", FormatScaleRequest{
		Name:        "tritone.scl",
		Description: "Two tritones",
		Notes:       []float64{600, 1200},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode(t, w)
	assert.Equal(t, "tritone.scl", response["filename"])
	assert.Equal(t, "! tritone.scl\r\n!\r\nTwo tritones\r\n2\r\n!\r\n600.00000\r\n1200.00000\r\n", response["text"])
}

func TestFormatScaleHandler_DefaultName(t *testing.T) {
	w := postJSON(t, setupTestRouter(), "/api/v1/scales/format", FormatScaleRequest{
		Notes: []float64{1200},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "scale.scl", decode(t, w)["filename"])
}

func TestFormatScaleHandler_UnreadableDescription(t *testing.T) {
	router := setupTestRouter()

	for _, description := range []string{"!bang description", "two\nlines", "carriage\rreturn"} {
		w := postJSON(t, router, "/api/v1/scales/format", FormatScaleRequest{
			Description: description,
			Notes:       []float64{100, 1200},
		})
		require.Equal(t, http.StatusBadRequest, w.Code, description)

		response := decode(t, w)
		assert.Contains(t, response["error"], "invalid description")
		assert.Equal(t, description, response["token"])
		assert.NotContains(t, response, "text")
	}
}

func TestFormatScaleHandler_OutputParses(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/scales/format", FormatScaleRequest{
		Name:        "fifths",
		Description: "Stacked fifths ! with a bang inside",
		Notes:       []float64{701.955, 1200},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	text, ok := decode(t, w)["text"].(string)
	require.True(t, ok)

	w = postJSON(t, router, "/api/v1/scales/parse", DocumentRequest{Text: text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode(t, w)
	assert.Equal(t, "Stacked fifths ! with a bang inside", response["description"])
	assert.Equal(t, []any{701.955, float64(1200)}, response["notes"])
}

func TestParseKeymapHandler(t *testing.T) {
	text := strings.Join([]string{
		"! test.kbm",
		"3", "10", "100", "60", "69", "440.0", "3",
		"0", "x", "2",
	}, "\n")

	w := postJSON(t, setupTestRouter(), "/api/v1/keymaps/parse", DocumentRequest{Text: text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode(t, w)
	assert.Equal(t, float64(3), response["size"])
	assert.Equal(t, float64(10), response["first_note"])
	assert.Equal(t, float64(100), response["last_note"])
	assert.Equal(t, []any{float64(0), nil, float64(2)}, response["mapping"])
}

func TestParseKeymapHandler_ShortHeader(t *testing.T) {
	w := postJSON(t, setupTestRouter(), "/api/v1/keymaps/parse", DocumentRequest{Text: "12\n0\n127\n"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "invalid mapping file")
}

func TestDefaultKeymapHandler(t *testing.T) {
	router := setupTestRouter()

	w := get(t, router, "/api/v1/keymaps/default?size=5")
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, float64(5), response["size"])
	assert.Equal(t, float64(60), response["middle_note"])
	assert.Len(t, response["mapping"], 5)

	for _, query := range []string{"", "?size=abc", "?size=-1", "?size=100000"} {
		w := get(t, router, "/api/v1/keymaps/default"+query)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}
