package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// UnitID identifies a technical unit a request can be routed to,
// e.g. "parques-jardines". The empty value means "not yet routed".
type UnitID string

var unitIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsValid checks if the unit ID is a non-empty lowercase kebab-case identifier
func (id UnitID) IsValid() bool {
	return unitIDPattern.MatchString(string(id))
}

// Validate returns an error if the unit ID is malformed
func (id UnitID) Validate() error {
	if !id.IsValid() {
		return goerr.New("invalid unit ID", goerr.V("id", string(id)))
	}
	return nil
}

// String returns the string representation of the unit ID
func (id UnitID) String() string {
	return string(id)
}
