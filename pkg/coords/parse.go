package coords

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	brackets       = strings.NewReplacer("[", "", "]", "")
	spacedComma    = regexp.MustCompile(`\s*,\s*`)
	leadingFloatRe = regexp.MustCompile(`^[+-]?(?:Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)
)

// Parse reads "lat, lon", "lat,lon" or "[lat, lon]" into a Coordinate.
// Brackets anywhere in the input are ignored, as is whitespace around the
// comma. Each half is read like a leading-float parse, so trailing garbage
// after a number is tolerated.
func Parse(input string) (Coordinate, error) {
	if strings.TrimSpace(input) == "" {
		return Coordinate{}, &ParseError{Kind: EmptyInput, Input: input}
	}

	cleaned := brackets.Replace(input)
	cleaned = spacedComma.ReplaceAllString(cleaned, ",")
	cleaned = strings.TrimSpace(cleaned)

	parts := strings.Split(cleaned, ",")
	if len(parts) != 2 {
		return Coordinate{}, &ParseError{Kind: WrongSegmentCount, Input: input}
	}

	lat, ok := parseLeadingFloat(parts[0])
	if !ok {
		return Coordinate{}, &ParseError{Kind: NotANumber, Input: input}
	}
	lon, ok := parseLeadingFloat(parts[1])
	if !ok {
		return Coordinate{}, &ParseError{Kind: NotANumber, Input: input}
	}

	if k := check(lat, lon); k != 0 {
		return Coordinate{}, &ParseError{Kind: k, Input: input}
	}
	return Coordinate{lat: lat, lon: lon}, nil
}

// parseLeadingFloat parses the longest numeric prefix of s after leading
// whitespace. Overflowing exponents yield ±Inf.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := leadingFloatRe.FindString(s)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}
