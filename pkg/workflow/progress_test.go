package workflow

import (
	"testing"

	"otcdocs/models"
)

func TestUploadProgressEmptyFolder(t *testing.T) {
	for _, cat := range Categories() {
		p, err := UploadProgress(cat, nil)
		if err != nil {
			t.Fatalf("%s: %v", cat, err)
		}
		req, _ := RequiredCount(cat)
		if p.CompletedSlots != 0 || p.ProgressPercentage != 0 {
			t.Fatalf("%s: empty folder should be 0%%, got %+v", cat, p)
		}
		if p.RequiredPendingSlots != req {
			t.Fatalf("%s: expected %d pending required got %d", cat, req, p.RequiredPendingSlots)
		}
	}
}

// Five of the six required safety slots uploaded: 5/10 complete, one required
// slot still pending.
func TestUploadProgressSafetyScenario(t *testing.T) {
	types := []string{"SAFETY_POLICY", "RISK_MATRIX", "EMERGENCY_PLAN", "PPE_DELIVERY", "TRAINING_CERTIFICATES"}
	var docs []models.Document
	for _, ty := range types {
		docs = append(docs, models.Document{Type: ty, URL: "public/docs/" + ty + ".pdf", Status: StatusDraft})
	}
	p, err := UploadProgress(CategorySafety, docs)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalSlots != 10 || p.CompletedSlots != 5 || p.RequiredPendingSlots != 1 || p.ProgressPercentage != 50 {
		t.Fatalf("expected 10/5/1/50 got %+v", p)
	}
}

func TestUploadProgressReuploadIdempotent(t *testing.T) {
	doc := models.Document{Type: "SAFETY_POLICY", URL: "public/docs/policy.pdf", Status: StatusDraft}
	one, err := UploadProgress(CategorySafety, []models.Document{doc})
	if err != nil {
		t.Fatal(err)
	}
	// a duplicate row for the same slot must not change any number
	two, err := UploadProgress(CategorySafety, []models.Document{doc, doc})
	if err != nil {
		t.Fatal(err)
	}
	if one != two {
		t.Fatalf("duplicate upload changed progress: %+v vs %+v", one, two)
	}
	if one.CompletedSlots != 1 {
		t.Fatalf("expected 1 completed got %+v", one)
	}
}

func TestApprovalProgressRequiresApprovedStatus(t *testing.T) {
	docs := []models.Document{
		{Type: "SAFETY_POLICY", URL: "public/docs/policy.pdf", Status: StatusApproved},
		{Type: "RISK_MATRIX", URL: "public/docs/risk.pdf", Status: StatusSubmitted},
	}
	up, err := UploadProgress(CategorySafety, docs)
	if err != nil {
		t.Fatal(err)
	}
	ap, err := ApprovalProgress(CategorySafety, docs)
	if err != nil {
		t.Fatal(err)
	}
	if up.CompletedSlots != 2 {
		t.Fatalf("upload variant should count both, got %+v", up)
	}
	if ap.CompletedSlots != 1 {
		t.Fatalf("approval variant should count only the approved one, got %+v", ap)
	}
}

// Three vehicles, catalog size 6, two uploaded docs each: 18 total, 6
// complete, 33% rounded.
func TestInstanceUploadProgressVehicles(t *testing.T) {
	instance := []models.Document{
		{Type: "CIRCULATION_PERMIT", URL: "public/docs/cp.pdf", Status: StatusDraft},
		{Type: "MANDATORY_INSURANCE", URL: "public/docs/mi.pdf", Status: StatusDraft},
	}
	instances := [][]models.Document{instance, instance, instance}
	p, err := InstanceUploadProgress(CategoryVehicles, instances)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalSlots != 18 || p.CompletedSlots != 6 || p.ProgressPercentage != 33 {
		t.Fatalf("expected 18/6/33 got %+v", p)
	}
	if p.RequiredPendingSlots != 6 { // 2 of 4 required pending per vehicle
		t.Fatalf("expected 6 pending required got %+v", p)
	}
}

func TestInstanceProgressZeroInstances(t *testing.T) {
	p, err := InstanceUploadProgress(CategoryVehicles, nil)
	if err != nil {
		t.Fatal(err)
	}
	// catalog still counts once with no vehicles registered
	if p.TotalSlots != 6 || p.CompletedSlots != 0 || p.RequiredPendingSlots != 4 {
		t.Fatalf("expected 6/0/4 got %+v", p)
	}
}

func TestSumProgressRecomputesPercentage(t *testing.T) {
	a := Progress{TotalSlots: 10, CompletedSlots: 5, RequiredPendingSlots: 1}
	b := Progress{TotalSlots: 6, CompletedSlots: 6}
	sum := SumProgress(a, b)
	if sum.TotalSlots != 16 || sum.CompletedSlots != 11 || sum.RequiredPendingSlots != 1 {
		t.Fatalf("bad sum %+v", sum)
	}
	if sum.ProgressPercentage != 69 { // round(11/16*100)
		t.Fatalf("expected 69%% got %d", sum.ProgressPercentage)
	}
	empty := SumProgress()
	if empty.ProgressPercentage != 0 {
		t.Fatalf("empty sum should be 0%% got %d", empty.ProgressPercentage)
	}
}
