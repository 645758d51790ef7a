package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/domain/types"
	"github.com/civic-lab/partes/pkg/intake"
	"github.com/civic-lab/partes/pkg/lifecycle"
	"github.com/civic-lab/partes/pkg/projection"
	"github.com/civic-lab/partes/pkg/store"
	"github.com/civic-lab/partes/pkg/utils/logging"
)

// CreateRequest registers a new request from validated form fields, as
// produced by intake.Form.Map. The store assigns the ID, the received
// status and the creation timestamp.
func (uc *UseCase) CreateRequest(ctx context.Context, fields map[string]string) (*model.Request, error) {
	r, err := buildRequest(fields)
	if err != nil {
		return nil, err
	}

	created := uc.store.Create(r)
	logging.From(ctx).Info("request created",
		"id", created.ID,
		"title", created.Subject.Title,
	)
	return created, nil
}

// buildRequest maps canonical field keys onto a record. Keys without a
// dedicated record field, such as the correspondence metadata, go into
// the extra-field passthrough so nothing a form collected is lost.
func buildRequest(fields map[string]string) (*model.Request, error) {
	r := &model.Request{}

	for key, value := range fields {
		if unit, answer, ok := intake.SplitAnswerKey(key); ok {
			if r.Subject.UnitAnswers == nil {
				r.Subject.UnitAnswers = make(map[types.UnitID]map[string]string)
			}
			unitID := types.UnitID(unit)
			if r.Subject.UnitAnswers[unitID] == nil {
				r.Subject.UnitAnswers[unitID] = make(map[string]string)
			}
			r.Subject.UnitAnswers[unitID][answer] = value
			continue
		}

		switch key {
		case intake.KeyName:
			r.Requester.Name = value
		case intake.KeyIdentity:
			r.Requester.IdentityNumber = value
		case intake.KeyEmail:
			r.Requester.Emails = append(r.Requester.Emails, value)
		case intake.KeyPhone:
			r.Requester.Phones = append(r.Requester.Phones, value)
		case intake.KeyAddress:
			r.Requester.Address = value
		case intake.KeyTitle:
			r.Subject.Title = value
		case intake.KeyDescription:
			r.Subject.Description = value
		case intake.KeyLocation:
			r.Subject.Location = value
		default:
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to encode field value", goerr.V("key", key))
			}
			if r.Extra == nil {
				r.Extra = make(map[string]json.RawMessage)
			}
			r.Extra[key] = raw
		}
	}

	if r.Subject.Title == "" && r.Subject.Description == "" {
		return nil, goerr.Wrap(ErrEmptySubject, "a title or description is required")
	}
	return r, nil
}

// AttachFile records an uploaded file on the request. The file's bytes
// must already be stored under the returned reference by the caller.
func (uc *UseCase) AttachFile(ctx context.Context, id types.RequestID, filename string, size int64) (*model.Request, error) {
	att, err := intake.NewAttachment(filename, size)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to accept attachment", goerr.V(RequestIDKey, id))
	}

	if !uc.store.Update(id, model.Changes{Attachment: att}) {
		return nil, goerr.Wrap(ErrRequestNotFound, "cannot attach file", goerr.V(RequestIDKey, id))
	}

	logging.From(ctx).Info("attachment recorded",
		"id", id, "filename", filename, "storedRef", att.StoredRef)
	return uc.mustFind(id)
}

// GetRequest returns the request with the given ID
func (uc *UseCase) GetRequest(id types.RequestID) (*model.Request, error) {
	r, ok := uc.store.FindByID(id)
	if !ok {
		return nil, goerr.Wrap(ErrRequestNotFound, "no such request", goerr.V(RequestIDKey, id))
	}
	return r, nil
}

// ListAll returns every request, newest first
func (uc *UseCase) ListAll() []*model.Request {
	return projection.Apply(uc.store.All(), projection.All)
}

// ListFiltered returns the requests matching the filter, newest first
func (uc *UseCase) ListFiltered(filter projection.Filter) []*model.Request {
	return projection.Apply(uc.store.All(), filter)
}

// RouteToUnit assigns the request to a technical unit from the catalog.
// First routing stamps the routing timestamps and sets the unit status
// to executing; re-routing only moves the assignment.
func (uc *UseCase) RouteToUnit(ctx context.Context, id types.RequestID, unit types.UnitID) (*model.Request, error) {
	if _, ok := uc.units[unit]; !ok {
		return nil, goerr.Wrap(ErrUnknownUnit, "cannot route request",
			goerr.V(RequestIDKey, id), goerr.V(UnitIDKey, unit))
	}

	r, err := uc.GetRequest(id)
	if err != nil {
		return nil, err
	}

	if !uc.store.Update(id, uc.engine.RouteToUnit(r, unit)) {
		return nil, goerr.Wrap(ErrRequestNotFound, "cannot route request", goerr.V(RequestIDKey, id))
	}

	logging.From(ctx).Info("request routed", "id", id, "unit", unit)
	return uc.mustFind(id)
}

// SetUnitStatus records a unit-side status update on a routed request
func (uc *UseCase) SetUnitStatus(ctx context.Context, id types.RequestID, status types.UnitStatus) (*model.Request, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStatus, "invalid unit status",
			goerr.V(RequestIDKey, id), goerr.V(StatusKey, status))
	}

	r, err := uc.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if r.AssignedUnit == "" {
		return nil, goerr.Wrap(ErrNotRouted, "cannot set unit status", goerr.V(RequestIDKey, id))
	}

	if !uc.store.Update(id, uc.engine.SetUnitStatus(r, status)) {
		return nil, goerr.Wrap(ErrRequestNotFound, "cannot set unit status", goerr.V(RequestIDKey, id))
	}

	logging.From(ctx).Info("unit status updated", "id", id, "status", status)
	return uc.mustFind(id)
}

// SetOverallStatus records a staff-side overall status update
func (uc *UseCase) SetOverallStatus(ctx context.Context, id types.RequestID, status types.OverallStatus) (*model.Request, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStatus, "invalid overall status",
			goerr.V(RequestIDKey, id), goerr.V(StatusKey, status))
	}

	if !uc.store.Update(id, uc.engine.SetOverallStatus(status)) {
		return nil, goerr.Wrap(ErrRequestNotFound, "cannot set overall status", goerr.V(RequestIDKey, id))
	}

	logging.From(ctx).Info("overall status updated", "id", id, "status", status)
	return uc.mustFind(id)
}

// StageBreakdown derives the per-stage timing view of the request
func (uc *UseCase) StageBreakdown(id types.RequestID) ([]lifecycle.Stage, error) {
	r, err := uc.GetRequest(id)
	if err != nil {
		return nil, err
	}
	return uc.engine.StageBreakdown(r), nil
}

// ElapsedDaysSince returns the whole days elapsed from t to now, for
// callers rendering ages outside a stage breakdown
func (uc *UseCase) ElapsedDaysSince(t time.Time) int {
	return uc.engine.ElapsedDaysSince(t)
}

// Statistics counts requests per overall status
func (uc *UseCase) Statistics() store.Statistics {
	return uc.store.Statistics()
}

// mustFind re-reads a request that was just confirmed to exist
func (uc *UseCase) mustFind(id types.RequestID) (*model.Request, error) {
	r, ok := uc.store.FindByID(id)
	if !ok {
		return nil, goerr.Wrap(ErrRequestNotFound, "request vanished", goerr.V(RequestIDKey, id))
	}
	return r, nil
}
