package tuning

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CentsPerOctave is the size of a 2/1 interval in cents.
const CentsPerOctave = 1200

var (
	integerPattern = regexp.MustCompile(`^\d+$`)
	ratioPattern   = regexp.MustCompile(`^(\d+)/(\d+)$`)
	centsPattern   = regexp.MustCompile(`^-?(\d+\.\d*|\.\d+)$`)
)

// RatioToCents converts a frequency ratio num/den to cents.
func RatioToCents(num, den float64) float64 {
	return CentsPerOctave * math.Log2(num/den)
}

// ParseInterval converts a pitch token to cents.
//
// Accepted forms, tried in order:
//
//	N      integer ratio N/1
//	N/D    ratio
//	C.C    cents, with optional sign and optional integer part (".5", "-7.")
//
// Integers and ratio terms must be positive. Anything else returns a *ParseError.
func ParseInterval(token string) (float64, error) {
	s := strings.TrimSpace(token)

	switch {
	case integerPattern.MatchString(s):
		num, err := strconv.ParseFloat(s, 64)
		if err != nil || num == 0 {
			return 0, &ParseError{Token: s}
		}
		return RatioToCents(num, 1), nil

	case ratioPattern.MatchString(s):
		parts := ratioPattern.FindStringSubmatch(s)
		num, numErr := strconv.ParseFloat(parts[1], 64)
		den, denErr := strconv.ParseFloat(parts[2], 64)
		if numErr != nil || denErr != nil || num == 0 || den == 0 {
			return 0, &ParseError{Token: s}
		}
		return RatioToCents(num, den), nil

	case centsPattern.MatchString(s):
		cents, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &ParseError{Token: s}
		}
		return cents, nil
	}

	return 0, &ParseError{Token: s}
}
