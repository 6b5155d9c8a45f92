package service

import (
	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
)

// StatsService aggregates registration data for the admin dashboard.
// It returns plain JSON aggregates; rendering stays with the client.
type StatsService struct {
	DB *database.DBinstanceStruct
}

// NewStatsService creates a StatsService bound to the given database
func NewStatsService(db *database.DBinstanceStruct) *StatsService {
	return &StatsService{DB: db}
}

// IndustryCount is a per-industry applicant tally
type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int64  `json:"count"`
}

// MonthlyCount is a per-calendar-month registration tally
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// RoleStats is the statistics block for one role
type RoleStats struct {
	Total        int64           `json:"total"`
	ByMonth      []MonthlyCount  `json:"by_month"`
	ByIndustry   []IndustryCount `json:"by_industry,omitempty"`
	PendingCount int64           `json:"pending_count,omitempty"`
}

// UserStatistics summarizes applicant registrations by month and industry
func (s *StatsService) UserStatistics() (RoleStats, error) {
	stats, err := s.roleStats(model.RoleUser)
	if err != nil {
		return RoleStats{}, err
	}

	err = s.DB.Model(&model.User{}).
		Select("COALESCE(industry, 'Unknown') AS industry, COUNT(*) AS count").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", model.RoleUser).
		Group("COALESCE(industry, 'Unknown')").
		Order("count DESC").
		Find(&stats.ByIndustry).Error
	return stats, err
}

// HRStatistics summarizes recruiter registrations and the pending queue size
func (s *StatsService) HRStatistics() (RoleStats, error) {
	stats, err := s.roleStats(model.RoleHR)
	if err != nil {
		return RoleStats{}, err
	}

	err = s.DB.Model(&model.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ? AND users.is_approved = FALSE", model.RoleHR).
		Count(&stats.PendingCount).Error
	return stats, err
}

func (s *StatsService) roleStats(roleName string) (RoleStats, error) {
	var stats RoleStats

	if err := s.DB.Model(&model.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", roleName).
		Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	err := s.DB.Model(&model.User{}).
		Select("to_char(registered_at, 'YYYY-MM') AS month, COUNT(*) AS count").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", roleName).
		Group("to_char(registered_at, 'YYYY-MM')").
		Order("month ASC").
		Find(&stats.ByMonth).Error
	return stats, err
}
