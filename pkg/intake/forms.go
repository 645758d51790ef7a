package intake

import "github.com/civic-lab/partes/pkg/domain/model"

// The bundled forms mirror the intake channels of the service desk.
// Field IDs match the submission payloads of each channel.

// CitizenForm is the public submission form
func CitizenForm() *Form {
	return NewForm("citizen", []FieldSpec{
		{ID: "nombre", Combine: KeyName},
		{ID: "apellido", Combine: KeyName},
		{ID: "rut", Key: KeyIdentity, Rules: []model.Rule{model.Required(), model.RUT()}},
		{ID: "email", Key: KeyEmail, Rules: []model.Rule{model.Required(), model.Email()}},
		{ID: "telefono", Key: KeyPhone, Optional: true, Rules: []model.Rule{model.Phone()}},
		{ID: "direccion", Key: KeyAddress},
		{ID: "titulo", Key: KeyTitle, Rules: []model.Rule{model.Required(), model.MinLength(5)}},
		{ID: "descripcion", Key: KeyDescription, Rules: []model.Rule{model.Required(), model.MinLength(10)}},
		{ID: "ubicacion-especifica", Key: KeyLocation, Optional: true},
	})
}

// StaffGeneralForm is the counter-staff form for requests that are not
// yet routed to a unit
func StaffGeneralForm() *Form {
	return NewForm("staff-general", []FieldSpec{
		{ID: "nombre", Combine: KeyName},
		{ID: "apellido", Combine: KeyName},
		{ID: "rut", Key: KeyIdentity, Rules: []model.Rule{model.Required(), model.RUT()}},
		{ID: "email", Key: KeyEmail, Optional: true, Rules: []model.Rule{model.Email()}},
		{ID: "telefono", Key: KeyPhone, Optional: true, Rules: []model.Rule{model.Phone()}},
		{ID: "direccion", Key: KeyAddress},
		{ID: "titulo", Key: KeyTitle},
		{ID: "descripcion", Key: KeyDescription},
		{ID: "ubicacion-especifica", Key: KeyLocation, Optional: true},
	})
}

// StaffSpecificForm extends the staff form with the parks unit
// sub-questions used when the destination is already known
func StaffSpecificForm() *Form {
	return NewForm("staff-specific", []FieldSpec{
		{ID: "nombre", Combine: KeyName},
		{ID: "apellido", Combine: KeyName},
		{ID: "rut", Key: KeyIdentity, Rules: []model.Rule{model.Required(), model.RUT()}},
		{ID: "email", Key: KeyEmail, Optional: true, Rules: []model.Rule{model.Email()}},
		{ID: "telefono", Key: KeyPhone, Optional: true, Rules: []model.Rule{model.Phone()}},
		{ID: "direccion", Key: KeyAddress},
		{ID: "titulo", Key: KeyTitle},
		{ID: "descripcion", Key: KeyDescription},
		{ID: "ubicacion-especifica", Key: KeyLocation, Optional: true},
		{ID: "tipo-terreno", Key: AnswerKey("parques-jardines", "terrain"), Optional: true},
		{ID: "tipo-vegetacion", Key: AnswerKey("parques-jardines", "vegetation"), Optional: true},
		{ID: "requiere-camion", Key: AnswerKey("parques-jardines", "needsTruck"), Optional: true},
	})
}

// CorrespondenceForm registers requests arriving as paper documents.
// The sender name stands in for the requester, the document number
// becomes the title and the document subject the description. Folio
// and reception metadata travel under the correspondence keys.
func CorrespondenceForm() *Form {
	return NewForm("correspondence", []FieldSpec{
		{ID: "nombre-corresp", Combine: KeyName},
		{ID: "tipo-remitente", Key: KeySenderType, Optional: true},
		{ID: "telefono", Key: KeyPhone, Optional: true, Rules: []model.Rule{model.Phone()}},
		{ID: "email", Key: KeyEmail, Optional: true, Rules: []model.Rule{model.Email()}},
		{ID: "direccion", Key: KeyAddress, Optional: true},
		{ID: "numero-folio", Key: KeyFolioNumber, Optional: true},
		{ID: "numero-documento", Key: KeyTitle},
		{ID: "tipo-documento", Key: KeyDocumentType, Optional: true},
		{ID: "fecha-documento", Key: KeyDocumentDate, Optional: true},
		{ID: "fecha-hora-ingreso", Key: KeyReceivedAt, Optional: true},
		{ID: "canal-recepcion", Key: KeyReceptionChannel, Optional: true},
		{ID: "materia-documento", Key: KeyDescription},
	})
}
