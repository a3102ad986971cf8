package workflow

import (
	"errors"
	"testing"

	"otcdocs/models"
)

func TestResolveSlotMatchesByType(t *testing.T) {
	docs := []models.Document{
		{Type: "RISK_MATRIX", URL: "public/docs/risk.pdf", Status: StatusSubmitted},
		{Type: "SAFETY_POLICY", URL: "", Status: StatusDraft},
	}
	st, err := ResolveSlot(CategorySafety, "RISK_MATRIX", docs)
	if err != nil {
		t.Fatal(err)
	}
	if !st.IsUploaded || st.Status != StatusSubmitted || st.Document == nil {
		t.Fatalf("expected uploaded submitted slot got %+v", st)
	}
	if !st.IsRequired {
		t.Fatal("RISK_MATRIX should be required")
	}

	// a document row with empty url is not uploaded
	st, err = ResolveSlot(CategorySafety, "SAFETY_POLICY", docs)
	if err != nil {
		t.Fatal(err)
	}
	if st.IsUploaded {
		t.Fatal("empty url must not count as uploaded")
	}

	// no document at all: DRAFT, not uploaded
	st, err = ResolveSlot(CategorySafety, "EMERGENCY_PLAN", docs)
	if err != nil {
		t.Fatal(err)
	}
	if st.IsUploaded || st.Status != StatusDraft || st.Document != nil {
		t.Fatalf("missing slot should be empty draft, got %+v", st)
	}
}

func TestResolveSlotFirstMatchWins(t *testing.T) {
	docs := []models.Document{
		{ID: 1, Type: "RISK_MATRIX", URL: "public/docs/a.pdf", Status: StatusApproved},
		{ID: 2, Type: "RISK_MATRIX", URL: "public/docs/b.pdf", Status: StatusDraft},
	}
	st, err := ResolveSlot(CategorySafety, "RISK_MATRIX", docs)
	if err != nil {
		t.Fatal(err)
	}
	if st.Document == nil || st.Document.ID != 1 {
		t.Fatalf("expected first match (id=1) got %+v", st.Document)
	}
}

func TestResolveSlotForeignType(t *testing.T) {
	_, err := ResolveSlot(CategorySafety, "CIRCULATION_PERMIT", nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for slot outside category got %v", err)
	}
}

func TestResolveSlotsOrderFollowsCatalog(t *testing.T) {
	out, err := ResolveSlots(CategoryVehicles, nil)
	if err != nil {
		t.Fatal(err)
	}
	slots, _ := Catalog(CategoryVehicles)
	if len(out) != len(slots) {
		t.Fatalf("expected %d statuses got %d", len(slots), len(out))
	}
	for i := range out {
		if out[i].Slot.Type != slots[i].Type {
			t.Fatalf("order mismatch at %d: %s vs %s", i, out[i].Slot.Type, slots[i].Type)
		}
	}
}
