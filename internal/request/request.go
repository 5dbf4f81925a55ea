// Package request defines the closed set of request variants the API client can send,
// and renders each of them into the URL path of its endpoint.
package request

import (
	"fmt"

	"github.com/apicommand/apicommand/internal/params"
)

// Tag names a request variant. It is what gets recorded as the request type of a stored response.
type Tag string

const (
	// TagGet is the tag of Get requests.
	TagGet Tag = "Get"
	// TagLastRun is the tag of LastRun requests.
	TagLastRun Tag = "LastRun"
	// TagRun is the tag of Run requests.
	TagRun Tag = "Run"
	// TagSpecific is the tag of Specific requests.
	TagSpecific Tag = "Specific"
)

// Variant is a get, last run, run or specific request.
// The set is closed: only the New functions of this package build one, always with every field set.
type Variant interface {
	variant()
}

// get asks for the data of a brand.
type get struct {
	brand params.BrandID
}

// lastRun asks for the last run of a brand at a location.
type lastRun struct {
	brand    params.BrandID
	location params.LocationID
}

// run asks for the runs of a brand at a location.
type run struct {
	brand    params.BrandID
	location params.LocationID
}

// specific asks for the runs of a brand at a location within a time span.
type specific struct {
	brand    params.BrandID
	location params.LocationID
	span     params.DateTimeSpan
}

func (get) variant()      {}
func (lastRun) variant()  {}
func (run) variant()      {}
func (specific) variant() {}

// NewGet returns a Get request.
func NewGet(brand params.BrandID) Variant {
	return get{brand: brand}
}

// NewLastRun returns a LastRun request.
func NewLastRun(brand params.BrandID, location params.LocationID) Variant {
	return lastRun{brand: brand, location: location}
}

// NewRun returns a Run request.
func NewRun(brand params.BrandID, location params.LocationID) Variant {
	return run{brand: brand, location: location}
}

// NewSpecific returns a Specific request.
func NewSpecific(brand params.BrandID, location params.LocationID, span params.DateTimeSpan) Variant {
	return specific{brand: brand, location: location, span: span}
}

// Path renders v as a slash delimited path with no leading or trailing slash.
// Identifiers are inserted verbatim; their length bound is what keeps the path well formed.
func Path(v Variant) string {
	switch r := v.(type) {
	case get:
		return fmt.Sprintf("get/%s", r.brand)
	case lastRun:
		return fmt.Sprintf("last_run/%s/%s", r.brand, r.location)
	case run:
		return fmt.Sprintf("run/%s/%s", r.brand, r.location)
	case specific:
		return fmt.Sprintf("specific/%s/%s/%d/%d", r.brand, r.location, r.span.From(), r.span.To())
	default:
		panic(fmt.Sprintf("unknown request variant %T", v))
	}
}

// TagOf returns the tag naming the variant of v.
func TagOf(v Variant) Tag {
	switch v.(type) {
	case get:
		return TagGet
	case lastRun:
		return TagLastRun
	case run:
		return TagRun
	case specific:
		return TagSpecific
	default:
		panic(fmt.Sprintf("unknown request variant %T", v))
	}
}
