package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/forgo/jobboard/internal/model"
)

// jobRow is the relational shape of model.Job
type jobRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Title          string `gorm:"size:200;not null"`
	Description    string `gorm:"type:text;not null"`
	Location       string `gorm:"size:200"`
	EmploymentType string `gorm:"size:32;not null"`
	SalaryMin      *int
	SalaryMax      *int
	Status         string    `gorm:"size:16;not null;default:open"`
	EmployerID     int64     `gorm:"not null;index"`
	CreatedOn      time.Time `gorm:"autoCreateTime"`
	UpdatedOn      time.Time `gorm:"autoUpdateTime"`
}

func (jobRow) TableName() string { return "jobs" }

func newJobRow(j *model.Job) *jobRow {
	return &jobRow{
		ID:             j.ID,
		Title:          j.Title,
		Description:    j.Description,
		Location:       j.Location,
		EmploymentType: string(j.EmploymentType),
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		Status:         string(j.Status),
		EmployerID:     j.EmployerID,
		CreatedOn:      j.CreatedOn,
		UpdatedOn:      j.UpdatedOn,
	}
}

func (r *jobRow) toModel() *model.Job {
	return &model.Job{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Location:       r.Location,
		EmploymentType: model.EmploymentType(r.EmploymentType),
		SalaryMin:      r.SalaryMin,
		SalaryMax:      r.SalaryMax,
		Status:         model.JobStatus(r.Status),
		EmployerID:     r.EmployerID,
		CreatedOn:      r.CreatedOn,
		UpdatedOn:      r.UpdatedOn,
	}
}

// userRow is the relational shape of model.User
type userRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"size:50;not null;uniqueIndex"`
	Hash      string    `gorm:"size:100;not null"`
	Name      string    `gorm:"size:100;not null"`
	Contacts  string    `gorm:"size:500"`
	Role      string    `gorm:"size:16;not null"`
	CreatedOn time.Time `gorm:"autoCreateTime"`
	UpdatedOn time.Time `gorm:"autoUpdateTime"`
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toModel() *model.User {
	return &model.User{
		ID:        r.ID,
		Username:  r.Username,
		Hash:      r.Hash,
		Name:      r.Name,
		Contacts:  r.Contacts,
		Role:      model.UserRole(r.Role),
		CreatedOn: r.CreatedOn,
		UpdatedOn: r.UpdatedOn,
	}
}

// Migrate creates or updates the relational schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}, &jobRow{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
