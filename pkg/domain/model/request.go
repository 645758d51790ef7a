package model

import (
	"encoding/json"
	"time"

	"github.com/civic-lab/partes/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Requester holds the business data of the citizen (or staff member on
// their behalf) who submitted the request. Free-form validated text,
// immutable after intake.
type Requester struct {
	Name           string   `json:"name,omitempty"`
	IdentityNumber string   `json:"identityNumber,omitempty"`
	Emails         []string `json:"emails,omitempty"`
	Phones         []string `json:"phones,omitempty"`
	Address        string   `json:"address,omitempty"`
}

// Subject describes what the request is about. UnitAnswers carries
// optional unit-specific sub-answers keyed by technical unit, e.g.
// terrain type / vegetation / needs-truck for the parks unit.
type Subject struct {
	Title       string                            `json:"title,omitempty"`
	Description string                            `json:"description,omitempty"`
	Location    string                            `json:"location,omitempty"`
	UnitAnswers map[types.UnitID]map[string]string `json:"unitAnswers,omitempty"`
}

// Attachment is a reference to an uploaded file. Only the reference is
// tracked here; the bytes live wherever the intake layer put them.
type Attachment struct {
	Filename  string `json:"filename"`
	StoredRef string `json:"storedRef,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// Request is the central entity: a citizen-submitted case tracked
// through intake, routing and resolution.
//
// Stage timestamps are set at most once each and never cleared.
// UnitStatus is meaningful only while AssignedUnit is non-empty.
type Request struct {
	ID            types.RequestID
	Requester     Requester
	Subject       Subject
	OverallStatus types.OverallStatus
	AssignedUnit  types.UnitID
	UnitStatus    types.UnitStatus

	CreatedAt           time.Time
	RoutedAt            *time.Time
	UnitStartedAt       *time.Time
	UnitStatusUpdatedAt *time.Time
	UnitClosedAt        *time.Time

	Attachment *Attachment

	// Extra keeps fields found in persisted documents that this version
	// does not know about, so they survive a load/save round trip.
	Extra map[string]json.RawMessage
}

// requestDoc is the persisted shape of a Request. Field names are
// stable across versions; do not rename.
type requestDoc struct {
	ID                  types.RequestID                `json:"id"`
	Requester           Requester                      `json:"requester"`
	Subject             Subject                        `json:"subject"`
	OverallStatus       types.OverallStatus            `json:"overallStatus"`
	AssignedUnit        types.UnitID                   `json:"assignedUnit,omitempty"`
	UnitStatus          types.UnitStatus               `json:"unitStatus,omitempty"`
	CreatedAt           time.Time                      `json:"createdAt"`
	RoutedAt            *time.Time                     `json:"routedAt,omitempty"`
	UnitStartedAt       *time.Time                     `json:"unitStartedAt,omitempty"`
	UnitStatusUpdatedAt *time.Time                     `json:"unitStatusUpdatedAt,omitempty"`
	UnitClosedAt        *time.Time                     `json:"unitClosedAt,omitempty"`
	Attachment          *Attachment                    `json:"attachment,omitempty"`
}

var knownDocKeys = map[string]bool{
	"id": true, "requester": true, "subject": true,
	"overallStatus": true, "assignedUnit": true, "unitStatus": true,
	"createdAt": true, "routedAt": true, "unitStartedAt": true,
	"unitStatusUpdatedAt": true, "unitClosedAt": true, "attachment": true,
}

// MarshalJSON writes the stable document layout and merges back any
// unknown fields captured at load time.
func (r *Request) MarshalJSON() ([]byte, error) {
	doc := requestDoc{
		ID:                  r.ID,
		Requester:           r.Requester,
		Subject:             r.Subject,
		OverallStatus:       r.OverallStatus,
		AssignedUnit:        r.AssignedUnit,
		UnitStatus:          r.UnitStatus,
		CreatedAt:           r.CreatedAt,
		RoutedAt:            r.RoutedAt,
		UnitStartedAt:       r.UnitStartedAt,
		UnitStatusUpdatedAt: r.UnitStatusUpdatedAt,
		UnitClosedAt:        r.UnitClosedAt,
		Attachment:          r.Attachment,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal request", goerr.V("id", r.ID))
	}
	if len(r.Extra) == 0 {
		return raw, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, goerr.Wrap(err, "failed to merge extra fields", goerr.V("id", r.ID))
	}
	for k, v := range r.Extra {
		if !knownDocKeys[k] {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads the stable document layout and keeps unknown
// fields aside in Extra.
func (r *Request) UnmarshalJSON(data []byte) error {
	var doc requestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return goerr.Wrap(err, "failed to unmarshal request")
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return goerr.Wrap(err, "failed to scan request fields")
	}

	var extra map[string]json.RawMessage
	for k, v := range all {
		if knownDocKeys[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}

	*r = Request{
		ID:                  doc.ID,
		Requester:           doc.Requester,
		Subject:             doc.Subject,
		OverallStatus:       doc.OverallStatus,
		AssignedUnit:        doc.AssignedUnit,
		UnitStatus:          doc.UnitStatus,
		CreatedAt:           doc.CreatedAt,
		RoutedAt:            doc.RoutedAt,
		UnitStartedAt:       doc.UnitStartedAt,
		UnitStatusUpdatedAt: doc.UnitStatusUpdatedAt,
		UnitClosedAt:        doc.UnitClosedAt,
		Attachment:          doc.Attachment,
		Extra:               extra,
	}
	return nil
}

// Clone creates a deep copy of the request
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}

	cloned := *r

	cloned.Requester.Emails = copyStrings(r.Requester.Emails)
	cloned.Requester.Phones = copyStrings(r.Requester.Phones)

	if r.Subject.UnitAnswers != nil {
		answers := make(map[types.UnitID]map[string]string, len(r.Subject.UnitAnswers))
		for unit, kv := range r.Subject.UnitAnswers {
			inner := make(map[string]string, len(kv))
			for k, v := range kv {
				inner[k] = v
			}
			answers[unit] = inner
		}
		cloned.Subject.UnitAnswers = answers
	}

	cloned.RoutedAt = copyTime(r.RoutedAt)
	cloned.UnitStartedAt = copyTime(r.UnitStartedAt)
	cloned.UnitStatusUpdatedAt = copyTime(r.UnitStatusUpdatedAt)
	cloned.UnitClosedAt = copyTime(r.UnitClosedAt)

	if r.Attachment != nil {
		att := *r.Attachment
		cloned.Attachment = &att
	}

	if r.Extra != nil {
		extra := make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			raw := make(json.RawMessage, len(v))
			copy(raw, v)
			extra[k] = raw
		}
		cloned.Extra = extra
	}

	return &cloned
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
