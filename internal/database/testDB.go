package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/sudais391/hirezy-project/internal/model"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test accounts and fixtures, seeded once per test binary
var (
	TestAdmin       m.User
	TestApplicant1  m.User
	TestApplicant2  m.User
	TestHRApproved  m.User
	TestHRPending   m.User
	TestSeedPassword = "SeedPass123!"

	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job

	TestCV1 m.UserCV
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts a fixed account set: an admin, two applicants, an
// approved HR and a pending HR, plus three jobs and one accepted CV.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return fmt.Errorf("test database already seeded")
	}

	roleIDs := map[string]uint{}
	var roles []m.Role
	if err := db.Find(&roles).Error; err != nil {
		return err
	}
	for _, r := range roles {
		roleIDs[r.Name] = r.ID
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	industrySoftware := "Software"
	industryFinance := "Finance"
	companyAcme := "Acme Recruiting"
	companyGlobex := "Globex"
	cnic1 := "35202-1111111-1"
	cnic2 := "35202-2222222-2"
	designation := "HR Manager"

	users := []m.User{
		{
			ID:         uuid.New(),
			Username:   "seed_admin",
			Email:      "seed_admin@example.com",
			Password:   hashedPwd,
			RoleID:     roleIDs[m.RoleAdmin],
			IsApproved: true,
			EditableUserInfo: m.EditableUserInfo{
				FullName: "Seed Admin",
			},
		},
		{
			ID:         uuid.New(),
			Username:   "applicant_one",
			Email:      "applicant1@example.com",
			Password:   hashedPwd,
			RoleID:     roleIDs[m.RoleUser],
			IsApproved: true,
			EditableUserInfo: m.EditableUserInfo{
				FullName: "Alice Ahmed",
				Industry: &industrySoftware,
			},
		},
		{
			ID:         uuid.New(),
			Username:   "applicant_two",
			Email:      "applicant2@example.com",
			Password:   hashedPwd,
			RoleID:     roleIDs[m.RoleUser],
			IsApproved: true,
			EditableUserInfo: m.EditableUserInfo{
				FullName: "Bilal Khan",
				Industry: &industryFinance,
			},
		},
		{
			ID:         uuid.New(),
			Username:   "hr_approved",
			Email:      "hr1@acme.example.com",
			Password:   hashedPwd,
			RoleID:     roleIDs[m.RoleHR],
			IsApproved: true,
			CNIC:       &cnic1,
			EditableUserInfo: m.EditableUserInfo{
				FullName:    "Hira Malik",
				CompanyName: &companyAcme,
				Designation: &designation,
			},
		},
		{
			ID:         uuid.New(),
			Username:   "hr_pending",
			Email:      "hr2@globex.example.com",
			Password:   hashedPwd,
			RoleID:     roleIDs[m.RoleHR],
			IsApproved: false,
			CNIC:       &cnic2,
			EditableUserInfo: m.EditableUserInfo{
				FullName:    "Hassan Raza",
				CompanyName: &companyGlobex,
				Designation: &designation,
			},
		},
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "seed_admin":
			TestAdmin = u
		case "applicant_one":
			TestApplicant1 = u
		case "applicant_two":
			TestApplicant2 = u
		case "hr_approved":
			TestHRApproved = u
		case "hr_pending":
			TestHRPending = u
		}
	}

	today := time.Now().Truncate(24 * time.Hour)
	jobs := []m.Job{
		{
			CompanyName: companyAcme,
			EditableJobInfo: m.EditableJobInfo{
				Title:           "Backend Engineer",
				Description:     "Design and run Go services against PostgreSQL.",
				Skills:          "Go,SQL,Docker",
				LastDateToApply: today.AddDate(0, 1, 0),
			},
			UploadedDate: today,
			HRID:         TestHRApproved.ID,
		},
		{
			CompanyName: companyAcme,
			EditableJobInfo: m.EditableJobInfo{
				Title:           "Data Analyst",
				Description:     "Build reporting pipelines and dashboards.",
				Skills:          "SQL,Python,Statistics",
				LastDateToApply: today.AddDate(0, 2, 0),
			},
			UploadedDate: today,
			HRID:         TestHRApproved.ID,
		},
		{
			CompanyName: companyAcme,
			EditableJobInfo: m.EditableJobInfo{
				Title:           "Frontend Developer",
				Description:     "Own the candidate-facing React application.",
				Skills:          "TypeScript,React,CSS",
				LastDateToApply: today.AddDate(0, 3, 0),
			},
			UploadedDate: today,
			HRID:         TestHRApproved.ID,
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1, TestJob2, TestJob3 = jobs[0], jobs[1], jobs[2]

	cv := m.UserCV{
		UserID:          TestApplicant1.ID,
		FileName:        "alice_resume.pdf",
		ATSScore:        91,
		Recommendations: []string{"Add a professional summary"},
		Data:            []byte("%PDF-1.4 seed resume"),
	}
	if err := db.Create(&cv).Error; err != nil {
		return err
	}
	TestCV1 = cv

	return nil
}
