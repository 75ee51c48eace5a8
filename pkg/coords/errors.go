package coords

import "errors"

type ErrorKind int

const (
	EmptyInput ErrorKind = iota + 1
	WrongSegmentCount
	NotANumber
	LatitudeOutOfRange
	LongitudeOutOfRange
)

var kindMessages = map[ErrorKind]string{
	EmptyInput:          "enter coordinates",
	WrongSegmentCount:   "coordinates must contain latitude and longitude separated by a single comma",
	NotANumber:          "latitude and longitude must be numbers",
	LatitudeOutOfRange:  "latitude must be in the range -90 to 90",
	LongitudeOutOfRange: "longitude must be in the range -180 to 180",
}

func (k ErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "EmptyInput"
	case WrongSegmentCount:
		return "WrongSegmentCount"
	case NotANumber:
		return "NotANumber"
	case LatitudeOutOfRange:
		return "LatitudeOutOfRange"
	case LongitudeOutOfRange:
		return "LongitudeOutOfRange"
	default:
		return "Unknown"
	}
}

// Message is the user-facing text shown for k.
func (k ErrorKind) Message() string {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return "invalid coordinates"
}

// ParseError reports why a coordinate string was rejected. Error returns the
// message for Kind without the input, so it can be shown next to the field.
type ParseError struct {
	Kind  ErrorKind
	Input string
}

func (e *ParseError) Error() string { return e.Kind.Message() }

// Is matches any *ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyInput          = &ParseError{Kind: EmptyInput}
	ErrWrongSegmentCount   = &ParseError{Kind: WrongSegmentCount}
	ErrNotANumber          = &ParseError{Kind: NotANumber}
	ErrLatitudeOutOfRange  = &ParseError{Kind: LatitudeOutOfRange}
	ErrLongitudeOutOfRange = &ParseError{Kind: LongitudeOutOfRange}
)

// KindOf returns the kind of the *ParseError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
