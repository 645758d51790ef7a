package model

import (
	"time"

	"github.com/civic-lab/partes/pkg/domain/types"
)

// Changes is a partial update to a Request. Nil fields are left
// untouched; set fields overwrite the current value (last-write-wins).
// The lifecycle engine produces Changes instead of mutating records so
// the transition rules stay free of storage side effects.
type Changes struct {
	Requester     *Requester
	Subject       *Subject
	OverallStatus *types.OverallStatus
	AssignedUnit  *types.UnitID
	UnitStatus    *types.UnitStatus

	RoutedAt            *time.Time
	UnitStartedAt       *time.Time
	UnitStatusUpdatedAt *time.Time
	UnitClosedAt        *time.Time

	Attachment *Attachment
}

// IsEmpty reports whether the change set carries no field at all
func (c Changes) IsEmpty() bool {
	return c.Requester == nil &&
		c.Subject == nil &&
		c.OverallStatus == nil &&
		c.AssignedUnit == nil &&
		c.UnitStatus == nil &&
		c.RoutedAt == nil &&
		c.UnitStartedAt == nil &&
		c.UnitStatusUpdatedAt == nil &&
		c.UnitClosedAt == nil &&
		c.Attachment == nil
}

// Apply merges the change set into the request, field by field
func (c Changes) Apply(r *Request) {
	if c.Requester != nil {
		r.Requester = *c.Requester
	}
	if c.Subject != nil {
		r.Subject = *c.Subject
	}
	if c.OverallStatus != nil {
		r.OverallStatus = *c.OverallStatus
	}
	if c.AssignedUnit != nil {
		r.AssignedUnit = *c.AssignedUnit
	}
	if c.UnitStatus != nil {
		r.UnitStatus = *c.UnitStatus
	}
	if c.RoutedAt != nil {
		r.RoutedAt = copyTime(c.RoutedAt)
	}
	if c.UnitStartedAt != nil {
		r.UnitStartedAt = copyTime(c.UnitStartedAt)
	}
	if c.UnitStatusUpdatedAt != nil {
		r.UnitStatusUpdatedAt = copyTime(c.UnitStatusUpdatedAt)
	}
	if c.UnitClosedAt != nil {
		r.UnitClosedAt = copyTime(c.UnitClosedAt)
	}
	if c.Attachment != nil {
		att := *c.Attachment
		r.Attachment = &att
	}
}
