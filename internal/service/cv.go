package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
)

// MinAcceptedScore is the inclusive ATS overall-score gate for CV uploads
const MinAcceptedScore = 70

// CVService stores uploaded résumés. The ATS accept-gate is a precondition of
// Add, not of any view, so it cannot be bypassed.
type CVService struct {
	DB *database.DBinstanceStruct
}

// NewCVService creates a CVService bound to the given database
func NewCVService(db *database.DBinstanceStruct) *CVService {
	return &CVService{DB: db}
}

// Add persists a CV after checking the score gate and returns its ID.
// A score of exactly MinAcceptedScore is accepted.
func (s *CVService) Add(userID uuid.UUID, fileName string, overallScore float64, recommendations []string, data []byte) (uint, error) {
	if overallScore < MinAcceptedScore {
		return 0, ErrScoreTooLow
	}

	cv := model.UserCV{
		UserID:          userID,
		FileName:        fileName,
		ATSScore:        overallScore,
		Recommendations: recommendations,
		Data:            data,
	}
	if err := s.DB.Create(&cv).Error; err != nil {
		return 0, err
	}
	return cv.ID, nil
}

// List returns the user's CVs without binary payloads, newest first
func (s *CVService) List(userID uuid.UUID) ([]model.CVSummary, error) {
	var cvs []model.CVSummary
	err := s.DB.Model(&model.UserCV{}).
		Select("id, file_name, ats_score, upload_date").
		Where("user_id = ?", userID).
		Order("upload_date DESC").
		Find(&cvs).Error
	return cvs, err
}

// Get loads a full CV row including the binary payload
func (s *CVService) Get(cvID uint) (model.UserCV, error) {
	var cv model.UserCV
	err := s.DB.Where("id = ?", cvID).First(&cv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserCV{}, ErrNotFound
	}
	return cv, err
}

// GetOwned loads a CV only if it belongs to the given user
func (s *CVService) GetOwned(cvID uint, userID uuid.UUID) (model.UserCV, error) {
	var cv model.UserCV
	err := s.DB.Where("id = ? AND user_id = ?", cvID, userID).First(&cv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserCV{}, ErrNotFound
	}
	return cv, err
}

// Delete removes a CV owned by the given user
func (s *CVService) Delete(cvID uint, userID uuid.UUID) error {
	result := s.DB.Where("id = ? AND user_id = ?", cvID, userID).Delete(&model.UserCV{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
