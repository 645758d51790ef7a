package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// RequestID is the public identifier of a request. The format is a
// two-digit year followed by a four-digit zero-padded sequence number,
// e.g. "26-0042". Assigned once at creation and never changed.
type RequestID string

var requestIDPattern = regexp.MustCompile(`^[0-9]{2}-[0-9]{4}$`)

// IsValid checks if the request ID matches the expected format
func (id RequestID) IsValid() bool {
	return requestIDPattern.MatchString(string(id))
}

// Validate returns an error if the request ID is malformed
func (id RequestID) Validate() error {
	if !id.IsValid() {
		return goerr.New("invalid request ID format", goerr.V("id", string(id)))
	}
	return nil
}

// String returns the string representation of the request ID
func (id RequestID) String() string {
	return string(id)
}
