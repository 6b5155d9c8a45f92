// Package applicant provides HTTP handlers for job seekers: browsing and
// applying to jobs and reading recruiter messages.
package applicant

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/service"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

// ApplicantController handles applicant-facing endpoints
type ApplicantController struct {
	DB       *database.DBinstanceStruct
	Jobs     *service.JobService
	Accounts *service.AccountService
}

// NewApplicantController creates a new instance of ApplicantController
func NewApplicantController(db *database.DBinstanceStruct) *ApplicantController {
	return &ApplicantController{
		DB:       db,
		Jobs:     service.NewJobService(db),
		Accounts: service.NewAccountService(db),
	}
}

// AvailableJobsHandler lists jobs the requesting user has not applied to.
// @Summary Get jobs available to the requesting applicant
// @Description Jobs already applied to are excluded; soonest-closing jobs come first
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job "Available job postings"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/jobs [get]
func (ac *ApplicantController) AvailableJobsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobs, err := ac.Jobs.ListAvailable(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch jobs: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

type applyInfo struct {
	CVID uint `json:"cv_id" binding:"required"`
}

// ApplyHandler submits one of the user's CVs to a job.
// @Summary Apply to a job with a stored CV
// @Description A user can apply to each job at most once; the CV must belong to the user
// @Tags Applicant
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job to apply to"
// @Param Info body applyInfo true "CV to submit"
// @Success 201 {object} model.Resume "Submission recorded"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job or CV not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/jobs/{id}/apply [post]
func (ac *ApplicantController) ApplyHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job id"})
		return
	}

	var info applyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "cv_id must be provided"})
		return
	}

	resume, err := ac.Jobs.Apply(uint(jobID), user.ID, info.CVID, user.FullName)
	switch {
	case err == nil:
		// Do nothing

	case errors.Is(err, service.ErrAlreadyApplied):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "You have already applied to this job",
		})
		return

	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: "Job or CV not found",
		})
		return

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to apply: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, resume)
}

// AppliedJobsHandler lists the jobs the user already applied to.
// @Summary Get the requesting applicant's applications
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} service.AppliedJobRow "Jobs applied to, most recent first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/applications [get]
func (ac *ApplicantController) AppliedJobsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rows, err := ac.Jobs.AppliedJobs(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// MessagesHandler returns the recruiter messages addressed to the user.
// @Summary Get messages sent to the requesting applicant
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} service.MessageRow "Messages, newest first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/messages [get]
func (ac *ApplicantController) MessagesHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rows, err := ac.Jobs.MessagesForCandidate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch messages: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ProfileHandler returns the requesting user's account.
// @Summary Get the requesting user's profile
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User "Account data"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /user/profile [get]
func (ac *ApplicantController) ProfileHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfileHandler applies a partial update to the requesting user's
// account. Omitted fields stay unchanged.
// @Summary Update the requesting user's profile
// @Tags Applicant
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body service.AccountUpdate true "Fields to change"
// @Success 200 {object} model.User "Updated account"
// @Failure 400 {object} utilities.ErrorResponse "Invalid field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 409 {object} utilities.ErrorResponse "Email or CNIC already taken"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/profile [patch]
func (ac *ApplicantController) UpdateProfileHandler(c *gin.Context) {
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

	err = ac.Accounts.Update(user.ID, upd)
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
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidIndustry):
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

	updated, err := ac.Accounts.Get(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}
