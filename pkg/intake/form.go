// Package intake maps submitted form values into record fields. The
// mapping is declarative: each field spec names the form element, the
// record key it lands in, and the validation rules to apply. Multiple
// form fields can be combined into one record value, e.g. first and
// last name into a single requester name.
package intake

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/civic-lab/partes/pkg/domain/model"
)

// Record field keys produced by the bundled forms. Unit-specific
// sub-answers use the "answers.<unit>.<key>" form.
const (
	KeyName        = "name"
	KeyIdentity    = "identity"
	KeyEmail       = "email"
	KeyPhone       = "phone"
	KeyAddress     = "address"
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyLocation    = "location"
)

// Correspondence metadata keys. These have no dedicated record field;
// they land in the record's extra-field passthrough and survive
// persistence round trips there.
const (
	KeySenderType       = "senderType"
	KeyFolioNumber      = "folioNumber"
	KeyDocumentType     = "documentType"
	KeyDocumentDate     = "documentDate"
	KeyReceivedAt       = "receivedAt"
	KeyReceptionChannel = "receptionChannel"
)

// AnswerKey builds the record key for a unit-specific sub-answer
func AnswerKey(unit, key string) string {
	return "answers." + unit + "." + key
}

// SplitAnswerKey is the inverse of AnswerKey. ok is false for keys
// that are not sub-answer keys.
func SplitAnswerKey(key string) (unit, answer string, ok bool) {
	parts := strings.SplitN(key, ".", 3)
	if len(parts) != 3 || parts[0] != "answers" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// FieldSpec describes one form field
type FieldSpec struct {
	// ID is the form element identifier the submitted value comes from
	ID string
	// Key is the record key; defaults to ID when empty
	Key string
	// Combine appends the value to the named record key instead of
	// storing it under its own key
	Combine string
	// Optional fields are validated only when a value was entered
	Optional bool
	// Rules defaults to a single required rule
	Rules []model.Rule
}

func (s FieldSpec) rules() []model.Rule {
	if len(s.Rules) == 0 {
		return []model.Rule{model.Required()}
	}
	return s.Rules
}

// Form is a named set of field specs
type Form struct {
	name     string
	specs    []FieldSpec
	registry *model.Registry
}

// FormOption configures a Form
type FormOption func(*Form)

// WithRegistry supplies custom validation predicates
func WithRegistry(registry *model.Registry) FormOption {
	return func(f *Form) {
		f.registry = registry
	}
}

// NewForm creates a form from its field specs
func NewForm(name string, specs []FieldSpec, opts ...FormOption) *Form {
	f := &Form{
		name:     name,
		specs:    specs,
		registry: model.NewRegistry(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the form's name
func (f *Form) Name() string {
	return f.name
}

// Map validates the submitted values and assembles the record fields.
// Validation stops at the first failing field; the error names it.
func (f *Form) Map(values map[string]string) (map[string]string, error) {
	for _, spec := range f.specs {
		value := strings.TrimSpace(values[spec.ID])
		if spec.Optional && value == "" {
			continue
		}
		if err := f.registry.Validate(value, spec.rules()); err != nil {
			return nil, goerr.Wrap(err, "invalid field value",
				goerr.V(FieldKey, spec.ID), goerr.V(FormKey, f.name))
		}
	}

	fields := make(map[string]string)
	for _, spec := range f.specs {
		value := strings.TrimSpace(values[spec.ID])
		if value == "" {
			continue
		}

		if spec.Combine != "" {
			if fields[spec.Combine] != "" {
				fields[spec.Combine] += " "
			}
			fields[spec.Combine] += value
			continue
		}

		key := spec.Key
		if key == "" {
			key = spec.ID
		}
		fields[key] = value
	}
	return fields, nil
}

// Context keys for error values
const (
	FieldKey = "field"
	FormKey  = "form"
)
