package learning

import "time"

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// StatusFor maps a completion percentage onto a progress status.
func StatusFor(pct int) ProgressStatus {
	switch {
	case pct >= 100:
		return StatusCompleted
	case pct > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// UserLearningProgress is keyed by (UserID, ModuleID). Progress only ever increases.
type UserLearningProgress struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string         `gorm:"type:uuid;not null;uniqueIndex:idx_learning_progress_user_module,priority:1;column:user_id" json:"userId"`
	ModuleID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_learning_progress_user_module,priority:2;column:module_id" json:"moduleId"`
	Status      ProgressStatus `gorm:"not null;default:'not_started';column:status" json:"status"`
	Progress    int            `gorm:"not null;default:0;column:progress" json:"progress"`
	StartedAt   *time.Time     `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
	UpdatedAt   time.Time      `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (UserLearningProgress) TableName() string { return "user_learning_progress" }

// Apply folds a reported percentage into the record, keeping progress monotonic.
// It reports whether anything changed.
func (p *UserLearningProgress) Apply(pct int, now time.Time) bool {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if pct <= p.Progress && p.Status != "" {
		return false
	}
	if pct > p.Progress {
		p.Progress = pct
	}
	p.Status = StatusFor(p.Progress)
	if p.Progress > 0 && p.StartedAt == nil {
		t := now
		p.StartedAt = &t
	}
	if p.Status == StatusCompleted && p.CompletedAt == nil {
		t := now
		p.CompletedAt = &t
	}
	p.UpdatedAt = now
	return true
}
