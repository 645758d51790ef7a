package types

import "github.com/m-mizutani/goerr/v2"

// UnitStatus is the fine-grained status reported by a technical unit
// once a request has been routed to it. The empty value means the
// unit has not taken ownership yet.
type UnitStatus string

const (
	UnitStatusNone      UnitStatus = ""
	UnitStatusExecuting UnitStatus = "executing"
	UnitStatusClosed    UnitStatus = "closed"
	UnitStatusRejected  UnitStatus = "rejected"
)

// AllUnitStatuses returns all valid non-empty unit statuses
func AllUnitStatuses() []UnitStatus {
	return []UnitStatus{
		UnitStatusExecuting,
		UnitStatusClosed,
		UnitStatusRejected,
	}
}

// IsValid checks if the unit status is a valid non-empty value
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusExecuting,
		UnitStatusClosed,
		UnitStatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the unit status
func (s UnitStatus) String() string {
	return string(s)
}

// ParseUnitStatus parses a string into a UnitStatus
func ParseUnitStatus(s string) (UnitStatus, error) {
	status := UnitStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid unit status", goerr.V("status", s))
	}
	return status, nil
}
