package models

import "fmt"

// TransportError is a network or HTTP-level failure from the remote API.
// The accumulation loop catches it per call, logs, and moves on.
type TransportError struct {
	Op         string // "search", "business", "reviews"
	StatusCode int    // 0 when the request never got a response
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("yelp: %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("yelp: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedPayloadError means a required field was missing from a payload
// being flattened. It aborts that record, never the whole run.
type MalformedPayloadError struct {
	Field      string
	BusinessID string // may be empty when the id itself is missing
}

func (e *MalformedPayloadError) Error() string {
	if e.BusinessID == "" {
		return fmt.Sprintf("flatten: missing required field %q", e.Field)
	}
	return fmt.Sprintf("flatten: business %s: missing required field %q", e.BusinessID, e.Field)
}

// ReferenceDataMissingError means a required input file is absent. Cleaning
// aborts before writing any output.
type ReferenceDataMissingError struct {
	Path string
	Err  error
}

func (e *ReferenceDataMissingError) Error() string {
	return fmt.Sprintf("required input file %q does not exist", e.Path)
}

func (e *ReferenceDataMissingError) Unwrap() error { return e.Err }
