package model

import (
	"time"

	"github.com/google/uuid"
)

// Resume links a CV snapshot to a specific job application and carries the
// recruiter's evaluation of it.
type Resume struct {
	ID    uint `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID uint `gorm:"not null;index" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`

	CandidateName string `gorm:"type:text" json:"candidate_name"`

	CVID uint   `gorm:"not null" json:"cv_id"`
	CV   UserCV `gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE" json:"-"`

	IsSelected         bool    `gorm:"default:false" json:"is_selected"`
	EvaluationScore    *int    `json:"evaluation_score"`
	EvaluationComments *string `gorm:"type:text" json:"evaluation_comments"`
}

// AppliedJob is the per-(user, job) marker; the unique index is what makes
// applying idempotent under concurrent submits.
type AppliedJob struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:applied_jobs_user_id_job_id_key" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	JobID  uint      `gorm:"not null;uniqueIndex:applied_jobs_user_id_job_id_key" json:"job_id"`
	Job    Job       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`

	AppliedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"applied_at"`
}

// HRMessage is a one-way recruiter-to-candidate notification, no reply channel
type HRMessage struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HRID        uuid.UUID `gorm:"type:uuid;not null;index" json:"hr_id"`
	HR          User      `gorm:"foreignKey:HRID;constraint:OnDelete:CASCADE" json:"-"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Candidate   User      `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	JobID       uint      `gorm:"not null" json:"job_id"`
	Job         Job       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`

	Message string    `gorm:"type:text" json:"message"`
	SentAt  time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"sent_at"`
}
