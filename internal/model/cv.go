package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserCV holds an uploaded résumé: the opaque PDF bytes plus the ATS score
// and recommendations recorded at upload time.
type UserCV struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	FileName        string         `gorm:"type:text" json:"file_name"`
	ATSScore        float64        `json:"ats_score"`
	Recommendations pq.StringArray `gorm:"type:text[]" json:"recommendations"`
	UploadDate      time.Time      `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"upload_date"`
	Data            []byte         `gorm:"type:bytea" json:"-"`
}

// CVSummary is the listing row without the binary payload
type CVSummary struct {
	ID         uint      `json:"id"`
	FileName   string    `json:"file_name"`
	ATSScore   float64   `json:"ats_score"`
	UploadDate time.Time `json:"upload_date"`
}
