// Package admin provides HTTP handlers for platform administration: the HR
// approval queue, account management, and registration statistics.
package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
	"github.com/sudais391/hirezy-project/internal/service"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

// AdminController handles administration endpoints
type AdminController struct {
	DB       *database.DBinstanceStruct
	Accounts *service.AccountService
	Stats    *service.StatsService
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(db *database.DBinstanceStruct) *AdminController {
	return &AdminController{
		DB:       db,
		Accounts: service.NewAccountService(db),
		Stats:    service.NewStatsService(db),
	}
}

func pathAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid account id"})
		return uuid.Nil, false
	}
	return id, true
}

// PendingHRHandler lists HR accounts awaiting review, oldest request first.
// @Summary Get HR accounts awaiting approval
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.User "Pending HR accounts"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/hr/pending [get]
func (ac *AdminController) PendingHRHandler(c *gin.Context) {
	users, err := ac.Accounts.PendingHR()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch pending accounts: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ApproveHRHandler approves a pending HR account, unlocking login and
// job posting for it.
// @Summary Approve a pending HR account
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the HR account"
// @Success 200 {object} utilities.MessageResponse "Account approved"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/hr/{id}/approve [put]
func (ac *AdminController) ApproveHRHandler(c *gin.Context) {
	id, ok := pathAccountID(c)
	if !ok {
		return
	}

	if err := ac.Accounts.ApproveHR(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to approve account: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Account approved"})
}

// RejectHRHandler removes a pending HR registration entirely.
// @Summary Reject a pending HR account
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the HR account"
// @Success 200 {object} utilities.MessageResponse "Account rejected"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/hr/{id}/reject [delete]
func (ac *AdminController) RejectHRHandler(c *gin.Context) {
	id, ok := pathAccountID(c)
	if !ok {
		return
	}

	if err := ac.Accounts.RejectHR(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to reject account: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Account rejected"})
}

// ListHRHandler lists HR accounts, newest registration first.
// @Summary Get HR accounts, optionally filtered by a search term
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param q query string false "Match against username, email, or full name"
// @Success 200 {array} model.User "HR accounts"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/hr [get]
func (ac *AdminController) ListHRHandler(c *gin.Context) {
	users, err := ac.Accounts.ListByRole(model.RoleHR, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch accounts: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListUsersHandler lists applicant accounts, newest registration first.
// @Summary Get applicant accounts, optionally filtered by a search term
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param q query string false "Match against username, email, or full name"
// @Success 200 {array} model.User "Applicant accounts"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users [get]
func (ac *AdminController) ListUsersHandler(c *gin.Context) {
	users, err := ac.Accounts.ListByRole(model.RoleUser, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch accounts: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateAccountHandler applies a partial update to any account.
// @Summary Update an account
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the account"
// @Param Info body service.AccountUpdate true "Fields to change"
// @Success 200 {object} model.User "Updated account"
// @Failure 400 {object} utilities.ErrorResponse "Invalid field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account not found"
// @Failure 409 {object} utilities.ErrorResponse "Email or CNIC already taken"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/accounts/{id} [patch]
func (ac *AdminController) UpdateAccountHandler(c *gin.Context) {
	id, ok := pathAccountID(c)
	if !ok {
		return
	}

	var upd service.AccountUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	err := ac.Accounts.Update(id, upd)
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
			Error: fmt.Sprintf("Failed to update account: %s", err.Error()),
		})
		return
	}

	updated, err := ac.Accounts.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated account: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

type deleteResponse struct {
	Message     string `json:"message"`
	JobsDeleted int64  `json:"jobs_deleted"`
}

// DeleteAccountHandler removes an account and everything hanging off it.
// For HR accounts the response reports how many job postings went with it.
// @Summary Delete an account
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the account"
// @Success 200 {object} deleteResponse "Account deleted with job count"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/accounts/{id} [delete]
func (ac *AdminController) DeleteAccountHandler(c *gin.Context) {
	id, ok := pathAccountID(c)
	if !ok {
		return
	}

	jobCount, err := ac.Accounts.Delete(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete account: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, deleteResponse{
		Message:     "Account deleted",
		JobsDeleted: jobCount,
	})
}

// UserStatisticsHandler summarizes applicant registrations.
// @Summary Get applicant registration statistics
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} service.RoleStats "Totals by month and industry"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/statistics/users [get]
func (ac *AdminController) UserStatisticsHandler(c *gin.Context) {
	stats, err := ac.Stats.UserStatistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to compute statistics: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HRStatisticsHandler summarizes recruiter registrations and the pending
// approval queue.
// @Summary Get HR registration statistics
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} service.RoleStats "Totals by month and pending count"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/statistics/hr [get]
func (ac *AdminController) HRStatisticsHandler(c *gin.Context) {
	stats, err := ac.Stats.HRStatistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to compute statistics: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
