package model

import (
	"time"

	"github.com/google/uuid"
)

// EditableJobInfo is the part of a job posting supplied by the HR user
type EditableJobInfo struct {
	Title           string    `gorm:"type:text" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Skills          string    `gorm:"type:text" json:"skills"`
	LastDateToApply time.Time `gorm:"type:date" json:"last_date_to_apply"`
}

// Job is gorm model for a job posting owned by an HR account
type Job struct {
	ID          uint   `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CompanyName string `gorm:"type:text" json:"company_name"`
	EditableJobInfo
	UploadedDate time.Time `gorm:"type:date" json:"uploaded_date"`

	HRID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"hr_id"`
	HR   User      `gorm:"foreignKey:HRID;constraint:OnDelete:CASCADE" json:"-"`
}
