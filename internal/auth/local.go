package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
	"github.com/sudais391/hirezy-project/internal/service"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

// LocalAuthHandler holds the account service for credential handlers.
type LocalAuthHandler struct {
	DB       *database.DBinstanceStruct
	Accounts *service.AccountService
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:       db,
		Accounts: service.NewAccountService(db),
	}
}

type registerInfo struct {
	FullName string `json:"full_name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=user hr"`

	Industry *string `json:"industry"`

	ContactNumber   *string `json:"contact_number"`
	CNIC            *string `json:"cnic"`
	Designation     *string `json:"designation"`
	CompanyName     *string `json:"company_name"`
	CompanyType     *string `json:"company_type"`
	CompanyAddress  *string `json:"company_address"`
	CompanyWebsite  *string `json:"company_website"`
	HRRoleInCompany *string `json:"hr_role_in_company"`
}

type loginInfo struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RegisterHandler handles local registration for applicant and HR accounts.
// HR accounts are created unapproved and receive no token until an admin
// approves them.
// @Summary Register a new applicant or HR account
// @Description Email and password must satisfy the platform policies. Username, email and CNIC must be unused.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'user' or 'hr'"
// @Success 201 {object} model.UserResponse "Applicant account with access token"
// @Success 202 {object} utilities.MessageResponse "HR account pending approval"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 409 {object} utilities.ErrorResponse "Username, email, or CNIC already taken"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Full name, username, email, password, and Role (Only 'user' or 'hr') must be provided",
		})
		return
	}

	roleName := model.RoleUser
	if info.Role == "hr" {
		roleName = model.RoleHR
	}

	user, err := lh.Accounts.Register(roleName, service.Registration{
		FullName:        info.FullName,
		Username:        info.Username,
		Email:           info.Email,
		Password:        info.Password,
		Industry:        info.Industry,
		ContactNumber:   info.ContactNumber,
		CNIC:            info.CNIC,
		Designation:     info.Designation,
		CompanyName:     info.CompanyName,
		CompanyType:     info.CompanyType,
		CompanyAddress:  info.CompanyAddress,
		CompanyWebsite:  info.CompanyWebsite,
		HRRoleInCompany: info.HRRoleInCompany,
	})

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
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	if roleName == model.RoleHR {
		c.JSON(http.StatusAccepted, utilities.MessageResponse{
			Message: "Registration received. An administrator will review your account.",
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, model.UserResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// LoginHandler handles local login by username or email plus password.
// @Summary Log in with username or email and password
// @Description Account must exist, password must match, and HR accounts must be approved
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.UserResponse "Account with access token"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Account not exist or password incorrect"
// @Failure 403 {object} utilities.ErrorResponse "HR account awaiting approval"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Identifier or password is not provided",
		})
		return
	}

	user, err := lh.Accounts.Authenticate(info.Identifier, info.Password)
	switch {
	case err == nil:
		// Do nothing

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return

	case errors.Is(err, service.ErrPendingApproval):
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Account is awaiting administrator approval",
		})
		return

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, model.UserResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// AvailabilityHandler answers the registration form's live checks on
// whether a username or email is still free. At least one of the two
// query parameters must be present.
// @Summary Check whether a username or email is still available
// @Tags Auth
// @Produce json
// @Param username query string false "Username to check"
// @Param email query string false "Email to check"
// @Success 200 {object} map[string]bool "Availability per supplied field"
// @Failure 400 {object} utilities.ErrorResponse "Neither field supplied"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/availability [get]
func (lh *LocalAuthHandler) AvailabilityHandler(c *gin.Context) {
	username := c.Query("username")
	email := c.Query("email")
	if username == "" && email == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Provide a username or an email to check",
		})
		return
	}

	resp := gin.H{}
	if username != "" {
		taken, err := lh.Accounts.UsernameExists(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
			return
		}
		resp["username_available"] = !taken
	}
	if email != "" {
		taken, err := lh.Accounts.EmailExists(email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
			return
		}
		resp["email_available"] = !taken
	}

	c.JSON(http.StatusOK, resp)
}
