package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
)

// JobService implements job postings, the application flow, resume
// evaluations, and recruiter-to-candidate messaging.
type JobService struct {
	DB *database.DBinstanceStruct
}

// NewJobService creates a JobService bound to the given database
func NewJobService(db *database.DBinstanceStruct) *JobService {
	return &JobService{DB: db}
}

// Post creates a new job posting owned by hrID. Approval, company-name and
// date checks live here so no caller can bypass them.
func (s *JobService) Post(hrID uuid.UUID, info model.EditableJobInfo) (model.Job, error) {
	var hr model.User
	err := s.DB.Preload("Role").Where("id = ?", hrID).First(&hr).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Job{}, ErrNotFound
	case err != nil:
		return model.Job{}, err
	}
	if !hr.IsApproved {
		return model.Job{}, ErrNotApproved
	}
	if hr.CompanyName == nil || *hr.CompanyName == "" {
		return model.Job{}, ErrCompanyNameMissing
	}
	if info.LastDateToApply.Before(time.Now().Truncate(24 * time.Hour)) {
		return model.Job{}, ErrDateInPast
	}

	job := model.Job{
		CompanyName:     *hr.CompanyName,
		EditableJobInfo: info,
		UploadedDate:    time.Now(),
		HRID:            hrID,
	}
	if err := s.DB.Create(&job).Error; err != nil {
		return model.Job{}, err
	}
	return job, nil
}

// ListAvailable returns jobs the user has not applied to, soonest-expiring
// first so postings about to close surface at the top.
func (s *JobService) ListAvailable(userID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := s.DB.
		Joins("LEFT JOIN applied_jobs a ON a.job_id = jobs.id AND a.user_id = ?", userID).
		Where("a.job_id IS NULL").
		Order("last_date_to_apply ASC").
		Find(&jobs).Error
	return jobs, err
}

// ListForHR returns the postings an HR account owns, newest upload first
func (s *JobService) ListForHR(hrID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := s.DB.Where("hr_id = ?", hrID).Order("uploaded_date DESC").Find(&jobs).Error
	return jobs, err
}

// GetByID loads a single job
func (s *JobService) GetByID(jobID uint) (model.Job, error) {
	var job model.Job
	err := s.DB.Where("id = ?", jobID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Job{}, ErrNotFound
	}
	return job, err
}

// Delete removes a job posting; the owner check belongs to the caller
func (s *JobService) Delete(jobID uint) error {
	result := s.DB.Where("id = ?", jobID).Delete(&model.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Apply records an application: the resume-submission row and the applied
// marker go in one transaction, so a duplicate marker rolls both back and a
// crash can never leave one without the other. The CV must belong to the
// applying user.
func (s *JobService) Apply(jobID uint, userID uuid.UUID, cvID uint, candidateName string) (model.Resume, error) {
	var resume model.Resume
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cv model.UserCV
		if err := tx.Select("id").Where("id = ? AND user_id = ?", cvID, userID).First(&cv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		marker := model.AppliedJob{UserID: userID, JobID: jobID}
		if err := tx.Create(&marker).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyApplied
			}
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return err
		}

		resume = model.Resume{
			JobID:         jobID,
			CandidateName: candidateName,
			CVID:          cvID,
		}
		if err := tx.Create(&resume).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.Resume{}, err
	}
	return resume, nil
}

// AppliedJobRow is a job the user applied to, with the application timestamp
type AppliedJobRow struct {
	model.Job
	AppliedAt time.Time `json:"applied_at"`
}

// AppliedJobs returns the jobs a user has applied to, most recent first
func (s *JobService) AppliedJobs(userID uuid.UUID) ([]AppliedJobRow, error) {
	var rows []AppliedJobRow
	err := s.DB.Model(&model.Job{}).
		Select("jobs.*, a.applied_at").
		Joins("JOIN applied_jobs a ON a.job_id = jobs.id").
		Where("a.user_id = ?", userID).
		Order("a.applied_at DESC").
		Find(&rows).Error
	return rows, err
}

// ResumeRow is a submission joined with the CV it references
type ResumeRow struct {
	model.Resume
	UserID   uuid.UUID `json:"user_id"`
	FileName string    `json:"file_name"`
}

// ResumesForJob lists every submission for a job with CV owner and file name
func (s *JobService) ResumesForJob(jobID uint) ([]ResumeRow, error) {
	var rows []ResumeRow
	err := s.DB.Model(&model.Resume{}).
		Select("resumes.*, user_cvs.user_id, user_cvs.file_name").
		Joins("JOIN user_cvs ON user_cvs.id = resumes.cv_id").
		Where("resumes.job_id = ?", jobID).
		Find(&rows).Error
	return rows, err
}

// SelectedResumesForJob lists submissions the recruiter marked as selected
func (s *JobService) SelectedResumesForJob(jobID uint) ([]ResumeRow, error) {
	var rows []ResumeRow
	err := s.DB.Model(&model.Resume{}).
		Select("resumes.*, user_cvs.user_id, user_cvs.file_name").
		Joins("JOIN user_cvs ON user_cvs.id = resumes.cv_id").
		Where("resumes.job_id = ? AND resumes.is_selected = TRUE", jobID).
		Find(&rows).Error
	return rows, err
}

// Evaluate upserts the scoring fields on a submission. Re-running with the
// same arguments is a no-op beyond the write itself; no history is kept.
func (s *JobService) Evaluate(resumeID uint, score int, comments string, selected bool) error {
	result := s.DB.Model(&model.Resume{}).
		Where("id = ?", resumeID).
		Updates(map[string]interface{}{
			"evaluation_score":    score,
			"evaluation_comments": comments,
			"is_selected":         selected,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SendMessage appends a one-way notification from a recruiter to a candidate
func (s *JobService) SendMessage(hrID, candidateID uuid.UUID, jobID uint, message string) error {
	msg := model.HRMessage{
		HRID:        hrID,
		CandidateID: candidateID,
		JobID:       jobID,
		Message:     message,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// MessageRow is a candidate-facing message joined with sender and job context
type MessageRow struct {
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sent_at"`
	HRName   string    `json:"hr_name"`
	JobTitle string    `json:"job_title"`
}

// MessagesForCandidate returns a candidate's inbox, newest first
func (s *JobService) MessagesForCandidate(candidateID uuid.UUID) ([]MessageRow, error) {
	var rows []MessageRow
	err := s.DB.Model(&model.HRMessage{}).
		Select("hr_messages.message, hr_messages.sent_at, users.full_name AS hr_name, jobs.title AS job_title").
		Joins("JOIN users ON users.id = hr_messages.hr_id").
		Joins("JOIN jobs ON jobs.id = hr_messages.job_id").
		Where("hr_messages.candidate_id = ?", candidateID).
		Order("hr_messages.sent_at DESC").
		Find(&rows).Error
	return rows, err
}
