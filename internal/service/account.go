package service

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

// AllowedIndustries is the closed industry set for applicant accounts
var AllowedIndustries = []string{"Software", "Finance", "Healthcare", "Education"}

var (
	emailLocalRe  = regexp.MustCompile(`^[a-zA-Z0-9_+\-][a-zA-Z0-9_.+\-]*$`)
	emailDomainRe = regexp.MustCompile(`^[a-zA-Z0-9\-]+(\.[a-zA-Z]{2,})+$`)
	hasLetterRe   = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitRe    = regexp.MustCompile(`[0-9]`)
	hasSymbolRe   = regexp.MustCompile(`[@$!%*?&#]`)
)

// AccountService implements the credential and account lifecycle: register,
// authenticate, partial update, delete with manual job cascade, and the admin
// approval flow for HR accounts.
type AccountService struct {
	DB *database.DBinstanceStruct
}

// NewAccountService creates an AccountService bound to the given database
func NewAccountService(db *database.DBinstanceStruct) *AccountService {
	return &AccountService{DB: db}
}

// Registration carries the fields a new account may supply. The HR block
// stays nil for applicant registrations.
type Registration struct {
	FullName string
	Username string
	Email    string
	Password string
	Industry *string

	ContactNumber   *string
	CNIC            *string
	Designation     *string
	CompanyName     *string
	CompanyType     *string
	CompanyAddress  *string
	CompanyWebsite  *string
	HRRoleInCompany *string
}

// Register validates the supplied fields, hashes the password and inserts the
// account. HR accounts start unapproved; every other role is usable at once.
func (s *AccountService) Register(roleName string, reg Registration) (model.User, error) {
	if !IsValidEmail(reg.Email) {
		return model.User{}, ErrInvalidEmail
	}
	if !IsValidPassword(reg.Password) {
		return model.User{}, ErrInvalidPassword
	}
	if reg.Industry != nil && !industryAllowed(*reg.Industry) {
		return model.User{}, ErrInvalidIndustry
	}

	var role model.Role
	if err := s.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUnknownRole
		}
		return model.User{}, err
	}

	hashed, err := utilities.HashPassword(reg.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		Username:   reg.Username,
		Email:      reg.Email,
		Password:   hashed,
		RoleID:     role.ID,
		CNIC:       reg.CNIC,
		IsApproved: roleName != model.RoleHR,
		EditableUserInfo: model.EditableUserInfo{
			FullName:        reg.FullName,
			Industry:        reg.Industry,
			ContactNumber:   reg.ContactNumber,
			Designation:     reg.Designation,
			CompanyName:     reg.CompanyName,
			CompanyType:     reg.CompanyType,
			CompanyAddress:  reg.CompanyAddress,
			CompanyWebsite:  reg.CompanyWebsite,
			HRRoleInCompany: reg.HRRoleInCompany,
		},
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return model.User{}, translateUniqueViolation(err)
	}
	user.Role = role
	return user, nil
}

// Authenticate looks an account up by username or email and verifies the
// password. The pending-approval check runs only after a password match, so
// an unapproved HR account is indistinguishable from a wrong password to
// anyone who doesn't hold its credentials.
func (s *AccountService) Authenticate(identifier string, password string) (model.User, error) {
	var user model.User
	err := s.DB.Preload("Role").
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, ErrInvalidCredentials
	case err != nil:
		return model.User{}, err
	}

	if user.Password == "" || !utilities.VerifyPassword(password, user.Password) {
		return model.User{}, ErrInvalidCredentials
	}

	if user.Role.Name == model.RoleHR && !user.IsApproved {
		return model.User{}, ErrPendingApproval
	}

	return user, nil
}

// AccountUpdate lists the fields a partial update may touch; nil means
// "leave unchanged".
type AccountUpdate struct {
	FullName             *string `json:"full_name"`
	Email                *string `json:"email"`
	Password             *string `json:"password"`
	Industry             *string `json:"industry"`
	ContactNumber        *string `json:"contact_number"`
	CNIC                 *string `json:"cnic"`
	Designation          *string `json:"designation"`
	CompanyName          *string `json:"company_name"`
	CompanyType          *string `json:"company_type"`
	CompanyAddress       *string `json:"company_address"`
	CompanyContactNumber *string `json:"company_contact_number"`
	CompanyWebsite       *string `json:"company_website"`
	HRRoleInCompany      *string `json:"hr_role_in_company"`
	IsApproved           *bool   `json:"-"`
}

// Update applies only the supplied fields. All format validation happens
// before any write.
func (s *AccountService) Update(accountID uuid.UUID, upd AccountUpdate) error {
	if upd.Email != nil && !IsValidEmail(*upd.Email) {
		return ErrInvalidEmail
	}
	if upd.Password != nil && !IsValidPassword(*upd.Password) {
		return ErrInvalidPassword
	}
	if upd.Industry != nil && !industryAllowed(*upd.Industry) {
		return ErrInvalidIndustry
	}

	fields := map[string]interface{}{}
	if upd.FullName != nil {
		fields["full_name"] = *upd.FullName
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.Password != nil {
		hashed, err := utilities.HashPassword(*upd.Password)
		if err != nil {
			return err
		}
		fields["password"] = hashed
	}
	if upd.Industry != nil {
		fields["industry"] = *upd.Industry
	}
	if upd.ContactNumber != nil {
		fields["contact_number"] = *upd.ContactNumber
	}
	if upd.CNIC != nil {
		fields["cnic"] = *upd.CNIC
	}
	if upd.Designation != nil {
		fields["designation"] = *upd.Designation
	}
	if upd.CompanyName != nil {
		fields["company_name"] = *upd.CompanyName
	}
	if upd.CompanyType != nil {
		fields["company_type"] = *upd.CompanyType
	}
	if upd.CompanyAddress != nil {
		fields["company_address"] = *upd.CompanyAddress
	}
	if upd.CompanyContactNumber != nil {
		fields["company_contact_number"] = *upd.CompanyContactNumber
	}
	if upd.CompanyWebsite != nil {
		fields["company_website"] = *upd.CompanyWebsite
	}
	if upd.HRRoleInCompany != nil {
		fields["hr_role_in_company"] = *upd.HRRoleInCompany
	}
	if upd.IsApproved != nil {
		fields["is_approved"] = *upd.IsApproved
	}
	if len(fields) == 0 {
		return nil
	}

	result := s.DB.Model(&model.User{}).Where("id = ?", accountID).Updates(fields)
	if result.Error != nil {
		return translateUniqueViolation(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the account after removing the jobs it owns, returning the
// number of jobs removed for caller messaging. Rows hanging off those jobs
// (resumes, applied markers, messages) go with them via the schema cascade.
func (s *AccountService) Delete(accountID uuid.UUID) (int64, error) {
	var jobCount int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Job{}).Where("hr_id = ?", accountID).Count(&jobCount).Error; err != nil {
			return err
		}
		if jobCount > 0 {
			if err := tx.Where("hr_id = ?", accountID).Delete(&model.Job{}).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", accountID).Delete(&model.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return jobCount, nil
}

// Get loads a single account with its role
func (s *AccountService) Get(accountID uuid.UUID) (model.User, error) {
	var user model.User
	err := s.DB.Preload("Role").Where("id = ?", accountID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

// UsernameExists supports the registration form's live availability check
func (s *AccountService) UsernameExists(username string) (bool, error) {
	var count int64
	err := s.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// EmailExists supports the registration form's live availability check
func (s *AccountService) EmailExists(email string) (bool, error) {
	var count int64
	err := s.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ListByRole returns accounts of a role, newest registration first. A
// non-empty query narrows the listing to accounts whose username, email
// or full name contains it, case-insensitively.
func (s *AccountService) ListByRole(roleName string, query string) ([]model.User, error) {
	tx := s.DB.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", roleName)
	if query != "" {
		like := "%" + query + "%"
		tx = tx.Where(
			"users.username ILIKE ? OR users.email ILIKE ? OR users.full_name ILIKE ?",
			like, like, like,
		)
	}

	var users []model.User
	err := tx.Order("registered_at DESC").Find(&users).Error
	return users, err
}

// PendingHR returns HR accounts awaiting admin review, oldest first
func (s *AccountService) PendingHR() ([]model.User, error) {
	var users []model.User
	err := s.DB.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ? AND users.is_approved = FALSE", model.RoleHR).
		Order("registered_at ASC").
		Find(&users).Error
	return users, err
}

// ApproveHR flips the approval flag on a pending HR account
func (s *AccountService) ApproveHR(accountID uuid.UUID) error {
	approved := true
	return s.Update(accountID, AccountUpdate{IsApproved: &approved})
}

// RejectHR removes a pending HR request entirely
func (s *AccountService) RejectHR(accountID uuid.UUID) error {
	_, err := s.Delete(accountID)
	return err
}

// IsValidEmail enforces the email policy: one @, a dotted domain, and a local
// part with no leading, trailing, or doubled dot.
func IsValidEmail(email string) bool {
	at := -1
	for i, c := range email {
		if c == '@' {
			if at >= 0 {
				return false
			}
			at = i
		}
	}
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if local[len(local)-1] == '.' {
		return false
	}
	if !emailLocalRe.MatchString(local) {
		return false
	}
	for i := 0; i+1 < len(local); i++ {
		if local[i] == '.' && local[i+1] == '.' {
			return false
		}
	}
	return emailDomainRe.MatchString(domain)
}

// IsValidPassword enforces the password policy: at least 8 characters with a
// letter, a digit, and a symbol from the fixed set.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return hasLetterRe.MatchString(password) &&
		hasDigitRe.MatchString(password) &&
		hasSymbolRe.MatchString(password)
}

func industryAllowed(industry string) bool {
	for _, v := range AllowedIndustries {
		if v == industry {
			return true
		}
	}
	return false
}
