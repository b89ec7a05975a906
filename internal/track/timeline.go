package track

import (
	"time"

	"eternalpay/internal/domain"
)

const (
	StepCreated    = "created"
	StepProcessing = "processing"
	StepCompleted  = "completed"
	StepCancelled  = "cancelled"
)

type Step struct {
	Name   string
	Active bool
	At     *time.Time
}

func statusMessage(status domain.TransactionStatus) string {
	switch status {
	case domain.StatusPending:
		return "Awaiting payment..."
	case domain.StatusProcessing:
		return "Processing payment..."
	case domain.StatusCompleted:
		return "Payment completed successfully!"
	case domain.StatusCancelled:
		return "Transaction cancelled"
	default:
		return ""
	}
}

// buildTimeline marks the steps reached by the observed status and stamps
// them with the record's timestamps.
func buildTimeline(tx domain.Transaction) []Step {
	created := tx.CreatedAt
	steps := []Step{
		{Name: StepCreated, Active: true, At: &created},
		{Name: StepProcessing},
		{Name: StepCompleted},
		{Name: StepCancelled},
	}

	switch tx.Status {
	case domain.StatusProcessing:
		steps[1] = Step{Name: StepProcessing, Active: true, At: tx.UpdatedAt}
	case domain.StatusCompleted:
		steps[1] = Step{Name: StepProcessing, Active: true, At: tx.UpdatedAt}
		steps[2] = Step{Name: StepCompleted, Active: true, At: tx.UpdatedAt}
	case domain.StatusCancelled:
		steps[3] = Step{Name: StepCancelled, Active: true, At: tx.UpdatedAt}
	}
	return steps
}
