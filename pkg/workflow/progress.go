package workflow

import (
	"math"

	"otcdocs/models"
)

// Progress aggregates slot fulfillment for one folder or a set of instances.
type Progress struct {
	TotalSlots           int `json:"total_slots"`
	CompletedSlots       int `json:"completed_slots"`
	RequiredPendingSlots int `json:"required_pending_slots"`
	ProgressPercentage   int `json:"progress_percentage"`
}

func percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// UploadProgress counts a slot as completed when a matching document with a
// non-empty url exists, regardless of review outcome. This is the completion
// shown to contractors while they assemble a folder.
func UploadProgress(category string, docs []models.Document) (Progress, error) {
	return progress(category, docs, false)
}

// ApprovalProgress counts a slot as completed only when its document is
// uploaded AND approved. This is the completion shown in review dashboards.
func ApprovalProgress(category string, docs []models.Document) (Progress, error) {
	return progress(category, docs, true)
}

func progress(category string, docs []models.Document, needApproval bool) (Progress, error) {
	slots, err := ResolveSlots(category, docs)
	if err != nil {
		return Progress{}, err
	}
	p := Progress{TotalSlots: len(slots)}
	for _, s := range slots {
		done := s.IsUploaded
		if needApproval {
			done = done && s.Status == StatusApproved
		}
		if done {
			p.CompletedSlots++
		}
		if s.IsRequired && !s.IsUploaded {
			p.RequiredPendingSlots++
		}
	}
	p.ProgressPercentage = percentage(p.CompletedSlots, p.TotalSlots)
	return p, nil
}

// InstanceUploadProgress evaluates the catalog once per instance (one
// sub-folder per vehicle or worker) and sums the results before computing the
// percentage. With zero instances the catalog still counts once, fully
// pending.
func InstanceUploadProgress(category string, instances [][]models.Document) (Progress, error) {
	return instanceProgress(category, instances, false)
}

// InstanceApprovalProgress is the approval-based variant of
// InstanceUploadProgress.
func InstanceApprovalProgress(category string, instances [][]models.Document) (Progress, error) {
	return instanceProgress(category, instances, true)
}

func instanceProgress(category string, instances [][]models.Document, needApproval bool) (Progress, error) {
	if len(instances) == 0 {
		instances = [][]models.Document{nil}
	}
	var sum Progress
	for _, docs := range instances {
		p, err := progress(category, docs, needApproval)
		if err != nil {
			return Progress{}, err
		}
		sum.TotalSlots += p.TotalSlots
		sum.CompletedSlots += p.CompletedSlots
		sum.RequiredPendingSlots += p.RequiredPendingSlots
	}
	sum.ProgressPercentage = percentage(sum.CompletedSlots, sum.TotalSlots)
	return sum, nil
}

// SumProgress combines already-computed aggregates (e.g. the company folders
// plus the vehicle and worker instance sums) and recomputes the percentage.
func SumProgress(parts ...Progress) Progress {
	var sum Progress
	for _, p := range parts {
		sum.TotalSlots += p.TotalSlots
		sum.CompletedSlots += p.CompletedSlots
		sum.RequiredPendingSlots += p.RequiredPendingSlots
	}
	sum.ProgressPercentage = percentage(sum.CompletedSlots, sum.TotalSlots)
	return sum
}
