package intake_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/intake"
)

func citizenValues() map[string]string {
	return map[string]string{
		"nombre":      "María",
		"apellido":    "Soto",
		"rut":         "12.345.678-9",
		"email":       "maria.soto@example.cl",
		"telefono":    "987654321",
		"direccion":   "Av. Principal 123",
		"titulo":      "Luminaria apagada",
		"descripcion": "La luminaria frente al 123 lleva una semana apagada",
	}
}

func TestCitizenFormMap(t *testing.T) {
	fields := gt.R1(intake.CitizenForm().Map(citizenValues())).NoError(t)

	gt.Value(t, fields[intake.KeyName]).Equal("María Soto")
	gt.Value(t, fields[intake.KeyIdentity]).Equal("12.345.678-9")
	gt.Value(t, fields[intake.KeyEmail]).Equal("maria.soto@example.cl")
	gt.Value(t, fields[intake.KeyPhone]).Equal("987654321")
	gt.Value(t, fields[intake.KeyTitle]).Equal("Luminaria apagada")

	t.Run("optional empty fields stay absent", func(t *testing.T) {
		_, present := fields[intake.KeyLocation]
		gt.B(t, present).False()
	})
}

func TestCitizenFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		expect error
	}{
		{"missing requester name", func(v map[string]string) { v["nombre"] = "" }, model.ErrValueRequired},
		{"malformed identity number", func(v map[string]string) { v["rut"] = "not-a-rut" }, model.ErrInvalidRUT},
		{"malformed email", func(v map[string]string) { v["email"] = "maria-at-example" }, model.ErrInvalidEmail},
		{"short title", func(v map[string]string) { v["titulo"] = "Hola" }, model.ErrTooShort},
		{"short description", func(v map[string]string) { v["descripcion"] = "breve" }, model.ErrTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := citizenValues()
			tt.mutate(values)

			_, err := intake.CitizenForm().Map(values)
			gt.Error(t, err)
			if !errors.Is(err, tt.expect) {
				t.Errorf("error = %v, want %v", err, tt.expect)
			}
		})
	}

	t.Run("optional phone is not validated when blank", func(t *testing.T) {
		values := citizenValues()
		values["telefono"] = ""
		gt.R1(intake.CitizenForm().Map(values)).NoError(t)
	})

	t.Run("optional phone is validated when present", func(t *testing.T) {
		values := citizenValues()
		values["telefono"] = "12"
		_, err := intake.CitizenForm().Map(values)
		gt.Error(t, err)
	})
}

func TestStaffSpecificFormAnswers(t *testing.T) {
	values := map[string]string{
		"nombre":          "Pedro",
		"apellido":        "Rojas",
		"rut":             "9876543-2",
		"direccion":       "Pasaje Norte 45",
		"titulo":          "Poda de árbol",
		"descripcion":     "Árbol con ramas sobre el cableado",
		"tipo-terreno":    "plaza",
		"tipo-vegetacion": "árbol",
		"requiere-camion": "si",
	}

	fields := gt.R1(intake.StaffSpecificForm().Map(values)).NoError(t)
	gt.Value(t, fields[intake.AnswerKey("parques-jardines", "terrain")]).Equal("plaza")
	gt.Value(t, fields[intake.AnswerKey("parques-jardines", "vegetation")]).Equal("árbol")
	gt.Value(t, fields[intake.AnswerKey("parques-jardines", "needsTruck")]).Equal("si")
}

func TestCorrespondenceForm(t *testing.T) {
	values := map[string]string{
		"nombre-corresp":     "Junta de Vecinos Unidad 5",
		"tipo-remitente":     "organizacion",
		"telefono":           "987654321",
		"email":              "junta.u5@example.cl",
		"direccion":          "Sede Social, Pasaje Norte 45",
		"numero-folio":       "F-0231",
		"numero-documento":   "OF-2026-118",
		"tipo-documento":     "oficio",
		"fecha-documento":    "2026-02-20",
		"fecha-hora-ingreso": "2026-02-21T09:30",
		"canal-recepcion":    "presencial",
		"materia-documento":  "Solicita instalación de lomos de toro",
	}

	fields := gt.R1(intake.CorrespondenceForm().Map(values)).NoError(t)

	// Every collected value lands under its record key
	expected := map[string]string{
		intake.KeyName:             "Junta de Vecinos Unidad 5",
		intake.KeySenderType:       "organizacion",
		intake.KeyPhone:            "987654321",
		intake.KeyEmail:            "junta.u5@example.cl",
		intake.KeyAddress:          "Sede Social, Pasaje Norte 45",
		intake.KeyFolioNumber:      "F-0231",
		intake.KeyTitle:            "OF-2026-118",
		intake.KeyDocumentType:     "oficio",
		intake.KeyDocumentDate:     "2026-02-20",
		intake.KeyReceivedAt:       "2026-02-21T09:30",
		intake.KeyReceptionChannel: "presencial",
		intake.KeyDescription:      "Solicita instalación de lomos de toro",
	}
	gt.Map(t, fields).Equal(expected)

	t.Run("metadata is optional", func(t *testing.T) {
		fields := gt.R1(intake.CorrespondenceForm().Map(map[string]string{
			"nombre-corresp":    "Junta de Vecinos Unidad 5",
			"numero-documento":  "OF-2026-118",
			"materia-documento": "Solicita instalación de lomos de toro",
		})).NoError(t)
		gt.Value(t, len(fields)).Equal(3)
	})

	t.Run("malformed contact data is rejected", func(t *testing.T) {
		bad := map[string]string{}
		for k, v := range values {
			bad[k] = v
		}
		bad["email"] = "junta-at-example"

		_, err := intake.CorrespondenceForm().Map(bad)
		gt.Error(t, err)
		if !errors.Is(err, model.ErrInvalidEmail) {
			t.Errorf("error = %v, want %v", err, model.ErrInvalidEmail)
		}
	})
}

func TestCustomRule(t *testing.T) {
	registry := model.NewRegistry()
	gt.NoError(t, registry.Register("zone", func(v string) bool {
		return strings.HasPrefix(v, "Z-")
	}))

	form := intake.NewForm("zoned", []intake.FieldSpec{
		{ID: "zona", Key: "zone", Rules: []model.Rule{model.Required(), model.Custom("zone")}},
	}, intake.WithRegistry(registry))

	fields := gt.R1(form.Map(map[string]string{"zona": "Z-04"})).NoError(t)
	gt.Value(t, fields["zone"]).Equal("Z-04")

	_, err := form.Map(map[string]string{"zona": "04"})
	gt.Error(t, err)
	if !errors.Is(err, model.ErrRuleFailed) {
		t.Errorf("error = %v, want %v", err, model.ErrRuleFailed)
	}
}

func TestSplitAnswerKey(t *testing.T) {
	unit, answer, ok := intake.SplitAnswerKey("answers.parques-jardines.terrain")
	gt.B(t, ok).True()
	gt.Value(t, unit).Equal("parques-jardines")
	gt.Value(t, answer).Equal("terrain")

	for _, key := range []string{"name", "answers.", "answers.unit", "answers..x"} {
		if _, _, ok := intake.SplitAnswerKey(key); ok {
			t.Errorf("SplitAnswerKey(%q) unexpectedly ok", key)
		}
	}
}

func TestNewAttachment(t *testing.T) {
	att := gt.R1(intake.NewAttachment("croquis.pdf", 1024)).NoError(t)
	gt.Value(t, att.Filename).Equal("croquis.pdf")
	gt.Value(t, att.Size).Equal(int64(1024))
	gt.B(t, strings.HasSuffix(att.StoredRef, ".pdf")).True()
	gt.B(t, att.StoredRef != "croquis.pdf").True()

	t.Run("stored references are unique", func(t *testing.T) {
		other := gt.R1(intake.NewAttachment("croquis.pdf", 1024)).NoError(t)
		gt.B(t, att.StoredRef != other.StoredRef).True()
	})

	t.Run("oversized file is rejected", func(t *testing.T) {
		_, err := intake.NewAttachment("video.mp4", intake.MaxAttachmentSize+1)
		gt.Error(t, err)
		if !errors.Is(err, intake.ErrAttachmentTooLarge) {
			t.Errorf("error = %v, want %v", err, intake.ErrAttachmentTooLarge)
		}
	})

	t.Run("missing filename is rejected", func(t *testing.T) {
		_, err := intake.NewAttachment("", 10)
		gt.Error(t, err)
	})
}
