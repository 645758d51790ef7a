package types

import "github.com/m-mizutani/goerr/v2"

// OverallStatus is the coarse lifecycle label set by office staff,
// independent of any technical unit's own status.
type OverallStatus string

const (
	OverallStatusReceived OverallStatus = "received"
	OverallStatusInReview OverallStatus = "in-review"
	OverallStatusClosed   OverallStatus = "closed"
)

// AllOverallStatuses returns all valid overall statuses
func AllOverallStatuses() []OverallStatus {
	return []OverallStatus{
		OverallStatusReceived,
		OverallStatusInReview,
		OverallStatusClosed,
	}
}

// IsValid checks if the overall status is valid
func (s OverallStatus) IsValid() bool {
	switch s {
	case OverallStatusReceived,
		OverallStatusInReview,
		OverallStatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as OverallStatusReceived
// for documents written by older versions that omitted the field.
func (s OverallStatus) Normalize() OverallStatus {
	if s == "" {
		return OverallStatusReceived
	}
	return s
}

// String returns the string representation of the overall status
func (s OverallStatus) String() string {
	return string(s)
}

// ParseOverallStatus parses a string into an OverallStatus
func ParseOverallStatus(s string) (OverallStatus, error) {
	status := OverallStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid overall status", goerr.V("status", s))
	}
	return status, nil
}
