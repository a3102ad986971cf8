package workflow

import "strings"

// Submit moves a folder into review. Legal only from DRAFT (first submission)
// or REJECTED (re-submission after corrections).
func Submit(current string) (string, error) {
	switch current {
	case StatusDraft, StatusRejected:
		return StatusSubmitted, nil
	default:
		return "", &InvalidTransitionError{Action: "submit folder for review", From: current}
	}
}

// Decide resolves a submitted folder. Approval locks the folder permanently;
// rejection returns it to an editable state so the contractor can correct and
// resubmit.
func Decide(current string, approved bool) (string, error) {
	if current != StatusSubmitted {
		action := "approve folder"
		if !approved {
			action = "reject folder"
		}
		return "", &InvalidTransitionError{Action: action, From: current}
	}
	if approved {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}

// ReviewDocument resolves a single document while its folder is under review.
// The folder must be SUBMITTED; the document must not already carry an
// outcome. Rejections require non-empty review notes.
func ReviewDocument(folderStatus, docStatus string, approved bool, notes string) (string, error) {
	if folderStatus != StatusSubmitted {
		return "", &InvalidTransitionError{Action: "review document", From: folderStatus}
	}
	if docStatus != StatusDraft && docStatus != StatusSubmitted {
		return "", &InvalidTransitionError{Action: "review document", From: docStatus}
	}
	if !approved && strings.TrimSpace(notes) == "" {
		return "", &ValidationError{Reason: "review notes are required when rejecting a document"}
	}
	if approved {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}

// UndoReview clears a document's review outcome, returning it to SUBMITTED so
// it can be reviewed again. Only documents that left DRAFT can be reset.
func UndoReview(docStatus string) (string, error) {
	if docStatus == StatusDraft {
		return "", &InvalidTransitionError{Action: "undo review", From: docStatus}
	}
	return StatusSubmitted, nil
}

// EnsureEditable gates document mutations: only an APPROVED folder is locked
// server-side. A SUBMITTED folder is read-only at the UI layer by convention,
// not enforced here.
func EnsureEditable(folderStatus string) error {
	if folderStatus == StatusApproved {
		return &FolderLockedError{}
	}
	return nil
}
