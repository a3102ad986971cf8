package workflow

import "fmt"

// ConfigurationError means a category outside the closed enum reached the
// engine. It is a programming error, not a user-facing condition.
type ConfigurationError struct {
	Category string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown folder category %q", e.Category)
}

// UnauthorizedError means the acting user does not belong to the company that
// owns the folder being mutated.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "not authorized for this folder"
	}
	return e.Reason
}

// FolderLockedError means a mutation was attempted on an APPROVED folder.
type FolderLockedError struct{}

func (e *FolderLockedError) Error() string {
	return "folder is approved and can no longer be modified"
}

// InvalidTransitionError names the attempted action and the state that made it
// illegal.
type InvalidTransitionError struct {
	Action string
	From   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while status is %s", e.Action, e.From)
}

// ValidationError covers user-correctable input problems such as a rejection
// without review notes or an empty upload.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
