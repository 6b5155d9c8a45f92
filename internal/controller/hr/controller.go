// Package hr provides HTTP handlers for recruiters: posting jobs, working
// through submissions, and contacting candidates.
package hr

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sudais391/hirezy-project/internal/ats"
	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
	"github.com/sudais391/hirezy-project/internal/service"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

// HRController handles recruiter-facing endpoints
type HRController struct {
	DB       *database.DBinstanceStruct
	Jobs     *service.JobService
	CVs      *service.CVService
	Accounts *service.AccountService
}

// NewHRController creates a new instance of HRController
func NewHRController(db *database.DBinstanceStruct) *HRController {
	return &HRController{
		DB:       db,
		Jobs:     service.NewJobService(db),
		CVs:      service.NewCVService(db),
		Accounts: service.NewAccountService(db),
	}
}

// ownedJob loads a job and verifies the requesting recruiter owns it.
func (hc *HRController) ownedJob(c *gin.Context, hrID uuid.UUID) (model.Job, bool) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job id"})
		return model.Job{}, false
	}

	job, err := hc.Jobs.GetByID(uint(jobID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return model.Job{}, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return model.Job{}, false
	}

	if job.HRID != hrID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to access this job",
		})
		return model.Job{}, false
	}
	return job, true
}

// CreateJobHandler posts a new job owned by the requesting recruiter.
// @Summary Create a job posting
// @Description The recruiter must be approved and have a company name on their profile; the closing date must be in the future
// @Tags HR
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Job posting fields"
// @Success 201 {object} model.Job "Created job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or closing date in the past"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Account not approved or company name missing"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/jobs [post]
func (hc *HRController) CreateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info model.EditableJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	job, err := hc.Jobs.Post(user.ID, info)
	switch {
	case err == nil:
		// Do nothing

	case errors.Is(err, service.ErrNotApproved), errors.Is(err, service.ErrCompanyNameMissing):
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: err.Error()})
		return

	case errors.Is(err, service.ErrDateInPast):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create job: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// MyJobsHandler lists the requesting recruiter's postings.
// @Summary Get the requesting recruiter's job postings
// @Tags HR
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job "Postings, newest first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/jobs [get]
func (hc *HRController) MyJobsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobs, err := hc.Jobs.ListForHR(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch jobs: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// DeleteJobHandler removes a posting the recruiter owns, along with its
// submissions and applied markers.
// @Summary Delete a job posting
// @Tags HR
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job"
// @Success 200 {object} utilities.MessageResponse "Job deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/jobs/{id} [delete]
func (hc *HRController) DeleteJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := hc.ownedJob(c, user.ID)
	if !ok {
		return
	}

	if err := hc.Jobs.Delete(job.ID); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job deleted"})
}

// ResumesHandler lists every submission for one of the recruiter's jobs.
// @Summary Get submissions for a job
// @Tags HR
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job"
// @Success 200 {array} service.ResumeRow "Submissions with CV owner and file name"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/jobs/{id}/resumes [get]
func (hc *HRController) ResumesHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := hc.ownedJob(c, user.ID)
	if !ok {
		return
	}

	rows, err := hc.Jobs.ResumesForJob(job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch resumes: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// SelectedResumesHandler lists the submissions marked selected for a job.
// @Summary Get selected submissions for a job
// @Tags HR
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job"
// @Success 200 {array} service.ResumeRow "Selected submissions"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/jobs/{id}/resumes/selected [get]
func (hc *HRController) SelectedResumesHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := hc.ownedJob(c, user.ID)
	if !ok {
		return
	}

	rows, err := hc.Jobs.SelectedResumesForJob(job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch resumes: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, rows)
}

type evaluationInfo struct {
	Score    *int   `json:"score" binding:"required"`
	Comments string `json:"comments"`
	Selected bool   `json:"selected"`
}

// resumeForHR loads a submission and verifies it belongs to one of the
// recruiter's jobs.
func (hc *HRController) resumeForHR(c *gin.Context, hrID uuid.UUID) (model.Resume, bool) {
	resumeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid resume id"})
		return model.Resume{}, false
	}

	var resume model.Resume
	err = hc.DB.
		Joins("JOIN jobs ON jobs.id = resumes.job_id").
		Where("resumes.id = ? AND jobs.hr_id = ?", resumeID, hrID).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Resume not found"})
			return model.Resume{}, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve resume: %s", err.Error()),
		})
		return model.Resume{}, false
	}
	return resume, true
}

// EvaluateHandler records a score, comments and the selection flag on a
// submission. Re-evaluating overwrites the previous values.
// @Summary Evaluate a submission
// @Tags HR
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the submission"
// @Param Info body evaluationInfo true "Evaluation fields"
// @Success 200 {object} utilities.MessageResponse "Evaluation recorded"
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resume not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/resumes/{id}/evaluate [put]
func (hc *HRController) EvaluateHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resume, ok := hc.resumeForHR(c, user.ID)
	if !ok {
		return
	}

	var info evaluationInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "score must be provided",
		})
		return
	}

	if err := hc.Jobs.Evaluate(resume.ID, *info.Score, info.Comments, info.Selected); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to record evaluation: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Evaluation recorded"})
}

// ResumeFileHandler streams the PDF behind a submission.
// @Summary Download the PDF of a submission
// @Tags HR
// @Produce application/pdf
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the submission"
// @Success 200 {file} binary "The submitted PDF"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resume not found"
// @Router /hr/resumes/{id}/file [get]
func (hc *HRController) ResumeFileHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resume, ok := hc.resumeForHR(c, user.ID)
	if !ok {
		return
	}

	cv, err := hc.CVs.Get(resume.CVID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve CV: %s", err.Error()),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cv.FileName))
	c.Data(http.StatusOK, "application/pdf", cv.Data)
}

// ArchiveHandler bundles every PDF submitted to a job into a single ZIP.
// @Summary Download all submissions for a job as a ZIP archive
// @Tags HR
// @Produce application/zip
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job"
// @Success 200 {file} binary "ZIP archive of submitted PDFs"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or no submissions"
// @Failure 500 {object} utilities.ErrorResponse "Database or archive error"
// @Router /hr/jobs/{id}/resumes/archive [get]
func (hc *HRController) ArchiveHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := hc.ownedJob(c, user.ID)
	if !ok {
		return
	}

	rows, err := hc.Jobs.ResumesForJob(job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch resumes: %s", err.Error()),
		})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No submissions for this job"})
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, row := range rows {
		cv, err := hc.CVs.Get(row.CVID)
		if err != nil {
			continue
		}
		// Prefix with the submission ID so same-named files don't collide.
		w, err := zw.Create(fmt.Sprintf("%d_%s", row.Resume.ID, cv.FileName))
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to build archive: %s", err.Error()),
			})
			return
		}
		if _, err := w.Write(cv.Data); err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to build archive: %s", err.Error()),
			})
			return
		}
	}
	if err := zw.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to finish archive: %s", err.Error()),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("job_%d_resumes.zip", job.ID)))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

type matchRow struct {
	ResumeID      uint    `json:"resume_id"`
	CandidateName string  `json:"candidate_name"`
	FileName      string  `json:"file_name"`
	Similarity    float64 `json:"similarity"`
}

// MatchHandler ranks a job's submissions against its description by
// TF-IDF cosine similarity, best match first.
// @Summary Rank submissions against the job description
// @Tags HR
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job"
// @Success 200 {array} matchRow "Submissions ranked by similarity"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/jobs/{id}/resumes/match [get]
func (hc *HRController) MatchHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := hc.ownedJob(c, user.ID)
	if !ok {
		return
	}

	rows, err := hc.Jobs.ResumesForJob(job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch resumes: %s", err.Error()),
		})
		return
	}

	texts := make([]string, len(rows))
	for i, row := range rows {
		cv, err := hc.CVs.Get(row.CVID)
		if err != nil {
			continue
		}
		// A CV that fails extraction just scores zero.
		if text, err := ats.ExtractText(cv.Data); err == nil {
			texts[i] = text
		}
	}

	similarities := ats.MatchResumes(job.Description, texts)

	results := make([]matchRow, len(rows))
	for i, row := range rows {
		results[i] = matchRow{
			ResumeID:      row.Resume.ID,
			CandidateName: row.CandidateName,
			FileName:      row.FileName,
			Similarity:    similarities[i],
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	c.JSON(http.StatusOK, results)
}

type messageInfo struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	JobID       uint   `json:"job_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// SendMessageHandler sends a one-way message to a candidate about one of the
// recruiter's jobs.
// @Summary Send a message to a candidate
// @Tags HR
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body messageInfo true "Candidate, job and message text"
// @Success 201 {object} utilities.MessageResponse "Message sent"
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Candidate or job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/messages [post]
func (hc *HRController) SendMessageHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info messageInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "candidate_id, job_id, and message must be provided",
		})
		return
	}

	candidateID, err := uuid.Parse(info.CandidateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid candidate id"})
		return
	}

	job, err := hc.Jobs.GetByID(info.JobID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}
	if job.HRID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to message about this job",
		})
		return
	}

	if err := hc.Jobs.SendMessage(user.ID, candidateID, job.ID, info.Message); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to send message: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, utilities.MessageResponse{Message: "Message sent"})
}

// ProfileHandler returns the requesting recruiter's account.
// @Summary Get the requesting recruiter's profile
// @Tags HR
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User "Account data"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /hr/profile [get]
func (hc *HRController) ProfileHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfileHandler applies a partial update to the requesting
// recruiter's account. This is how a recruiter who registered without a
// company name fills it in before posting jobs.
// @Summary Update the requesting recruiter's profile
// @Tags HR
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body service.AccountUpdate true "Fields to change"
// @Success 200 {object} model.User "Updated account"
// @Failure 400 {object} utilities.ErrorResponse "Invalid field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 409 {object} utilities.ErrorResponse "Email or CNIC already taken"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /hr/profile [patch]
func (hc *HRController) UpdateProfileHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var upd service.AccountUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	err = hc.Accounts.Update(user.ID, upd)
	var dup *service.DuplicateFieldError
	switch {
	case err == nil:
		// Do nothing

	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("%s already taken", dup.Field),
		})
		return

	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return

	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account not found"})
		return

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	updated, err := hc.Accounts.Get(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}
