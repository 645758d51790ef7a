package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/civic-lab/partes/pkg/domain/model"
)

func TestBuiltinRules(t *testing.T) {
	reg := model.NewRegistry()

	tests := []struct {
		name    string
		value   string
		rules   []model.Rule
		wantErr error
	}{
		{"required ok", "hola", []model.Rule{model.Required()}, nil},
		{"required blank", "   ", []model.Rule{model.Required()}, model.ErrValueRequired},
		{"min length ok", "descripción larga", []model.Rule{model.MinLength(10)}, nil},
		{"min length short", "corta", []model.Rule{model.MinLength(10)}, model.ErrTooShort},
		{"min length trims", "  ab  ", []model.Rule{model.MinLength(3)}, model.ErrTooShort},

		{"rut dotted", "12.345.678-9", []model.Rule{model.RUT()}, nil},
		{"rut dashed", "12345678-9", []model.Rule{model.RUT()}, nil},
		{"rut compact with K", "12345678K", []model.Rule{model.RUT()}, nil},
		{"rut too short", "123-4", []model.Rule{model.RUT()}, model.ErrInvalidRUT},
		{"rut letters", "abcdefgh-9", []model.Rule{model.RUT()}, model.ErrInvalidRUT},

		{"email ok", "vecino@municipio.cl", []model.Rule{model.Email()}, nil},
		{"email no domain", "vecino@", []model.Rule{model.Email()}, model.ErrInvalidEmail},
		{"email spaces", "ve cino@municipio.cl", []model.Rule{model.Email()}, model.ErrInvalidEmail},

		{"phone plain", "987654321", []model.Rule{model.Phone()}, nil},
		{"phone formatted", "+56 9 8765-4321", []model.Rule{model.Phone()}, nil},
		{"phone short", "1234567", []model.Rule{model.Phone()}, model.ErrInvalidPhone},
		{"phone letters", "98765432a", []model.Rule{model.Phone()}, model.ErrInvalidPhone},

		{"rules in order stop at first failure", "", []model.Rule{model.Required(), model.Email()}, model.ErrValueRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Validate(tt.value, tt.rules)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate(%q) = %v, want nil", tt.value, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) = %v, want %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestCustomRules(t *testing.T) {
	reg := model.NewRegistry()
	err := reg.Register("uppercase", func(v string) bool {
		return v == strings.ToUpper(v)
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := reg.Validate("HOLA", []model.Rule{model.Custom("uppercase")}); err != nil {
		t.Errorf("custom rule should pass: %v", err)
	}
	if err := reg.Validate("hola", []model.Rule{model.Custom("uppercase")}); !errors.Is(err, model.ErrRuleFailed) {
		t.Errorf("custom rule should fail with ErrRuleFailed, got %v", err)
	}
	if err := reg.Validate("x", []model.Rule{model.Custom("missing")}); !errors.Is(err, model.ErrUnknownRule) {
		t.Errorf("unregistered rule should fail with ErrUnknownRule, got %v", err)
	}
	if err := reg.Register("uppercase", func(string) bool { return true }); err == nil {
		t.Error("duplicate registration should fail")
	}
}
