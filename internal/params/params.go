// Package params turns raw, untrusted strings into validated request parameters.
//
// Each parameter kind is its own type with unexported fields, so a raw string can never be
// used where a validated identifier is expected: the New functions are the only way to get one.
package params

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/apicommand/apicommand/internal/constants"
)

var (
	// ErrInvalidBrandID is returned when a raw brand id does not satisfy the length bounds.
	ErrInvalidBrandID = errors.New("invalid brand_id")
	// ErrInvalidLocationID is returned when a raw location id does not satisfy the length bounds.
	ErrInvalidLocationID = errors.New("invalid location_id")
	// ErrInvalidTimestamp is returned when a raw timestamp is not a base-10 unsigned 64-bit integer.
	ErrInvalidTimestamp = errors.New("parse error for timestamp")
	// ErrInvalidSpan is returned when the end of a span is before its start.
	ErrInvalidSpan = errors.New("invalid date_time_span")
)

// BrandID identifies a tenant.
type BrandID struct {
	id string
}

// NewBrandID validates raw and returns it as a BrandID.
func NewBrandID(raw string) (BrandID, error) {
	if !validID(raw) {
		return BrandID{}, fmt.Errorf("%w: %q", ErrInvalidBrandID, raw)
	}
	return BrandID{id: raw}, nil
}

// String returns the id exactly as it was supplied.
func (b BrandID) String() string {
	return b.id
}

// LocationID identifies a site of a brand.
type LocationID struct {
	id string
}

// NewLocationID validates raw and returns it as a LocationID.
func NewLocationID(raw string) (LocationID, error) {
	if !validID(raw) {
		return LocationID{}, fmt.Errorf("%w: %q", ErrInvalidLocationID, raw)
	}
	return LocationID{id: raw}, nil
}

// String returns the id exactly as it was supplied.
func (l LocationID) String() string {
	return l.id
}

func validID(raw string) bool {
	n := utf8.RuneCountInString(raw)
	return n >= constants.MinIDLength && n <= constants.MaxIDLength
}

// DateTimeSpan is a pair of epoch millisecond timestamps where To is never before From.
type DateTimeSpan struct {
	from uint64
	to   uint64
}

// NewDateTimeSpan parses both timestamps and checks their ordering.
// A zero-length span, where both ends are equal, is valid.
func NewDateTimeSpan(rawFrom, rawTo string) (DateTimeSpan, error) {
	from, err := parseTimestamp(rawFrom)
	if err != nil {
		return DateTimeSpan{}, err
	}
	to, err := parseTimestamp(rawTo)
	if err != nil {
		return DateTimeSpan{}, err
	}

	if to < from {
		return DateTimeSpan{}, fmt.Errorf(`%w: "to_date"=%d can't be smaller than "from_date"=%d`, ErrInvalidSpan, to, from)
	}
	return DateTimeSpan{from: from, to: to}, nil
}

func parseTimestamp(raw string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidTimestamp, raw, err)
	}
	return v, nil
}

// From returns the start of the span.
func (s DateTimeSpan) From() uint64 {
	return s.from
}

// To returns the end of the span.
func (s DateTimeSpan) To() uint64 {
	return s.to
}
