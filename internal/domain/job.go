package domain

import (
	"fmt"
	"time"
)

// JobStatus represents the status of an ingestion job.
// Values include JobStatusPending, JobStatusProcessing, JobStatusReady, JobStatusCompleted, and JobStatusFailed.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusReady      JobStatus = "READY"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// jobTransitions is the fixed transition graph. READY -> PROCESSING is the callback hand-off.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusProcessing, JobStatusFailed},
	JobStatusProcessing: {JobStatusReady, JobStatusCompleted, JobStatusFailed},
	JobStatusReady:      {JobStatusProcessing, JobStatusFailed},
}

// IsTerminal reports whether no further transitions are allowed.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether next is reachable from s in one step.
// Parameters:
//   - next: target status.
// Returns:
//   - bool: true if the edge exists in the transition graph.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IngestionJob represents one DEM ingestion attempt and its progress.
type IngestionJob struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MDMProviderID       uint      `gorm:"not null;index" json:"mdmProviderId"`
	MDMSyncURL          string    `gorm:"type:text" json:"mdmSyncUrl"`
	Status              JobStatus `gorm:"type:text;not null;index;default:PENDING" json:"status"`
	RawDataPath         string    `gorm:"type:text" json:"rawDataPath,omitempty"`
	TransformedDataPath string    `gorm:"type:text" json:"transformedDataPath,omitempty"`
	StatusMessage       string    `gorm:"type:text" json:"statusMessage"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// TableName returns the database table name for IngestionJob.
func (IngestionJob) TableName() string {
	return "ingestion_jobs"
}

// Transition moves the job to next and replaces its status message.
// Parameters:
//   - next: target status.
//   - message: human-readable description of the step just reached.
// Returns:
//   - error: ErrTerminalJob if the job already finished, ErrInvalidTransition if the edge is not allowed.
func (j *IngestionJob) Transition(next JobStatus, message string) error {
	if j.Status.IsTerminal() {
		return fmt.Errorf("job %d is %s: %w", j.ID, j.Status, ErrTerminalJob)
	}
	if !j.Status.CanTransitionTo(next) {
		return fmt.Errorf("job %d: %s -> %s: %w", j.ID, j.Status, next, ErrInvalidTransition)
	}
	j.Status = next
	j.StatusMessage = message
	return nil
}

// Note replaces the status message without changing the status.
func (j *IngestionJob) Note(message string) error {
	if j.Status.IsTerminal() {
		return fmt.Errorf("job %d is %s: %w", j.ID, j.Status, ErrTerminalJob)
	}
	j.StatusMessage = message
	return nil
}

// Summary converts the job into its wire representation.
func (j *IngestionJob) Summary() JobSummary {
	return JobSummary{
		ID:                  j.ID,
		MDMProviderID:       j.MDMProviderID,
		Status:              string(j.Status),
		RawDataPath:         j.RawDataPath,
		TransformedDataPath: j.TransformedDataPath,
		StatusMessage:       j.StatusMessage,
		CreatedAt:           FormatLocalDateTime(j.CreatedAt),
		UpdatedAt:           FormatLocalDateTime(j.UpdatedAt),
	}
}
