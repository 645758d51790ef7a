package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/domain/types"
)

func TestRequestJSONRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	routed := created.Add(24 * time.Hour)

	r := &model.Request{
		ID: "26-0001",
		Requester: model.Requester{
			Name:           "María Soto",
			IdentityNumber: "12.345.678-9",
			Emails:         []string{"maria@example.com"},
			Phones:         []string{"+56 9 1234 5678"},
			Address:        "Av. Principal 123",
		},
		Subject: model.Subject{
			Title:       "Luminaria apagada",
			Description: "Poste sin luz frente al 123",
			Location:    "Av. Principal esquina Norte",
		},
		OverallStatus: types.OverallStatusInReview,
		AssignedUnit:  "alumbrado-publico",
		UnitStatus:    types.UnitStatusExecuting,
		CreatedAt:     created,
		RoutedAt:      &routed,
		UnitStartedAt: &routed,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got model.Request
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != r.ID {
		t.Errorf("ID = %q, want %q", got.ID, r.ID)
	}
	if got.Requester.Name != r.Requester.Name {
		t.Errorf("Requester.Name = %q, want %q", got.Requester.Name, r.Requester.Name)
	}
	if got.OverallStatus != types.OverallStatusInReview {
		t.Errorf("OverallStatus = %q", got.OverallStatus)
	}
	if got.UnitStatus != types.UnitStatusExecuting {
		t.Errorf("UnitStatus = %q", got.UnitStatus)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.RoutedAt == nil || !got.RoutedAt.Equal(routed) {
		t.Errorf("RoutedAt = %v, want %v", got.RoutedAt, routed)
	}
	if got.UnitClosedAt != nil {
		t.Errorf("UnitClosedAt should stay unset, got %v", got.UnitClosedAt)
	}
}

func TestRequestPreservesUnknownFields(t *testing.T) {
	doc := []byte(`{
		"id": "26-0002",
		"requester": {"name": "Pedro"},
		"subject": {"title": "Bache en calzada"},
		"overallStatus": "received",
		"createdAt": "2026-03-02T10:00:00Z",
		"legacyPriority": "alta",
		"internalNotes": ["revisar", "urgente"]
	}`)

	var r model.Request
	if err := json.Unmarshal(doc, &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(r.Extra) != 2 {
		t.Fatalf("Extra has %d entries, want 2: %v", len(r.Extra), r.Extra)
	}

	out, err := json.Marshal(&r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("re-scan: %v", err)
	}
	if string(raw["legacyPriority"]) != `"alta"` {
		t.Errorf("legacyPriority = %s, want \"alta\"", raw["legacyPriority"])
	}
	if _, ok := raw["internalNotes"]; !ok {
		t.Error("internalNotes dropped on round trip")
	}
	if string(raw["id"]) != `"26-0002"` {
		t.Errorf("id = %s", raw["id"])
	}
}

func TestRequestClone(t *testing.T) {
	routed := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	orig := &model.Request{
		ID: "26-0003",
		Requester: model.Requester{
			Name:   "Ana",
			Emails: []string{"ana@example.com"},
		},
		Subject: model.Subject{
			Title: "Poda de árbol",
			UnitAnswers: map[types.UnitID]map[string]string{
				"parques-jardines": {"terrain": "plaza", "needsTruck": "yes"},
			},
		},
		AssignedUnit: "parques-jardines",
		RoutedAt:     &routed,
		Attachment:   &model.Attachment{Filename: "foto.jpg", Size: 1024},
		Extra:        map[string]json.RawMessage{"x": json.RawMessage(`1`)},
	}

	cloned := orig.Clone()

	cloned.Requester.Emails[0] = "otro@example.com"
	cloned.Subject.UnitAnswers["parques-jardines"]["terrain"] = "calle"
	*cloned.RoutedAt = routed.Add(time.Hour)
	cloned.Attachment.Filename = "otra.jpg"
	cloned.Extra["x"] = json.RawMessage(`2`)

	if orig.Requester.Emails[0] != "ana@example.com" {
		t.Error("clone shares Emails slice")
	}
	if orig.Subject.UnitAnswers["parques-jardines"]["terrain"] != "plaza" {
		t.Error("clone shares UnitAnswers map")
	}
	if !orig.RoutedAt.Equal(routed) {
		t.Error("clone shares RoutedAt pointer")
	}
	if orig.Attachment.Filename != "foto.jpg" {
		t.Error("clone shares Attachment pointer")
	}
	if string(orig.Extra["x"]) != "1" {
		t.Error("clone shares Extra map")
	}

	var nilReq *model.Request
	if nilReq.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
