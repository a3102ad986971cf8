package workflow

import (
	"errors"
	"testing"
)

func TestSubmitReachability(t *testing.T) {
	next, err := Submit(StatusDraft)
	if err != nil || next != StatusSubmitted {
		t.Fatalf("DRAFT should submit, got %s err=%v", next, err)
	}
	next, err = Submit(StatusRejected)
	if err != nil || next != StatusSubmitted {
		t.Fatalf("REJECTED should resubmit, got %s err=%v", next, err)
	}
	for _, from := range []string{StatusSubmitted, StatusApproved} {
		if _, err := Submit(from); err == nil {
			t.Fatalf("submit from %s should fail", from)
		}
	}
}

func TestDecideReachability(t *testing.T) {
	next, err := Decide(StatusSubmitted, true)
	if err != nil || next != StatusApproved {
		t.Fatalf("expected APPROVED got %s err=%v", next, err)
	}
	next, err = Decide(StatusSubmitted, false)
	if err != nil || next != StatusRejected {
		t.Fatalf("expected REJECTED got %s err=%v", next, err)
	}
	for _, from := range []string{StatusDraft, StatusApproved, StatusRejected} {
		for _, approved := range []bool{true, false} {
			_, err := Decide(from, approved)
			var ite *InvalidTransitionError
			if !errors.As(err, &ite) {
				t.Fatalf("decide from %s should be InvalidTransitionError, got %v", from, err)
			}
		}
	}
}

// APPROVED is terminal: no action leads anywhere.
func TestApprovedIsTerminal(t *testing.T) {
	if _, err := Submit(StatusApproved); err == nil {
		t.Fatal("submit from APPROVED should fail")
	}
	if _, err := Decide(StatusApproved, false); err == nil {
		t.Fatal("decide from APPROVED should fail")
	}
	if err := EnsureEditable(StatusApproved); err == nil {
		t.Fatal("APPROVED folder must be locked")
	}
}

func TestEnsureEditable(t *testing.T) {
	for _, st := range []string{StatusDraft, StatusSubmitted, StatusRejected} {
		if err := EnsureEditable(st); err != nil {
			t.Fatalf("%s should be editable server-side: %v", st, err)
		}
	}
	err := EnsureEditable(StatusApproved)
	var fle *FolderLockedError
	if !errors.As(err, &fle) {
		t.Fatalf("expected FolderLockedError got %v", err)
	}
}

func TestReviewDocumentRequiresSubmittedFolder(t *testing.T) {
	for _, fs := range []string{StatusDraft, StatusApproved, StatusRejected} {
		_, err := ReviewDocument(fs, StatusSubmitted, true, "")
		var ite *InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Fatalf("folder %s: expected InvalidTransitionError got %v", fs, err)
		}
	}
	next, err := ReviewDocument(StatusSubmitted, StatusSubmitted, true, "")
	if err != nil || next != StatusApproved {
		t.Fatalf("expected APPROVED got %s err=%v", next, err)
	}
	// DRAFT documents may be reviewed directly
	next, err = ReviewDocument(StatusSubmitted, StatusDraft, false, "illegible scan")
	if err != nil || next != StatusRejected {
		t.Fatalf("expected REJECTED got %s err=%v", next, err)
	}
}

func TestReviewDocumentRejectionNeedsNotes(t *testing.T) {
	_, err := ReviewDocument(StatusSubmitted, StatusSubmitted, false, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError got %v", err)
	}
	_, err = ReviewDocument(StatusSubmitted, StatusSubmitted, false, "   ")
	if !errors.As(err, &ve) {
		t.Fatalf("whitespace notes should fail too, got %v", err)
	}
	next, err := ReviewDocument(StatusSubmitted, StatusSubmitted, false, "expired certificate")
	if err != nil || next != StatusRejected {
		t.Fatalf("expected REJECTED got %s err=%v", next, err)
	}
}

func TestReviewDocumentAlreadyDecided(t *testing.T) {
	for _, ds := range []string{StatusApproved, StatusRejected} {
		_, err := ReviewDocument(StatusSubmitted, ds, true, "")
		var ite *InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Fatalf("doc %s: expected InvalidTransitionError got %v", ds, err)
		}
	}
}

func TestUndoReview(t *testing.T) {
	for _, ds := range []string{StatusSubmitted, StatusApproved, StatusRejected} {
		next, err := UndoReview(ds)
		if err != nil || next != StatusSubmitted {
			t.Fatalf("%s: expected SUBMITTED got %s err=%v", ds, next, err)
		}
	}
	_, err := UndoReview(StatusDraft)
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("undo on DRAFT should be InvalidTransitionError got %v", err)
	}
}

// One full rejection cycle: submit, reject, resubmit, approve, then locked.
func TestRejectionCycle(t *testing.T) {
	st := StatusDraft
	var err error
	if st, err = Submit(st); err != nil {
		t.Fatal(err)
	}
	if st, err = Decide(st, false); err != nil || st != StatusRejected {
		t.Fatalf("reject failed: %s %v", st, err)
	}
	if st, err = Submit(st); err != nil || st != StatusSubmitted {
		t.Fatalf("resubmit after rejection failed: %s %v", st, err)
	}
	if st, err = Decide(st, true); err != nil || st != StatusApproved {
		t.Fatalf("approve failed: %s %v", st, err)
	}
	if _, err = Submit(st); err == nil {
		t.Fatal("approved folder accepted another submission")
	}
}
