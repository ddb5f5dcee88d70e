package database

import (
	"log"

	"github.com/jobportal/jobportal/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existing models.User
	result := db.Where("email = ?", "employer@jobportal.local").First(&existing)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("devpassword"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	employer := models.User{
		Email:         "employer@jobportal.local",
		Name:          "Dev Employer",
		PasswordHash:  string(hash),
		IsEmployer:    true,
		EmailVerified: true,
		CompanyName:   "Acme Widgets",
	}
	if err := db.Create(&employer).Error; err != nil {
		return err
	}

	seeker := models.User{
		Email:         "seeker@jobportal.local",
		Name:          "Dev Seeker",
		PasswordHash:  string(hash),
		IsSeeker:      true,
		EmailVerified: true,
		Skills:        "Go, SQL, Docker",
	}
	if err := db.Create(&seeker).Error; err != nil {
		return err
	}

	admin := models.User{
		Email:         "admin@jobportal.local",
		Name:          "Dev Admin",
		PasswordHash:  string(hash),
		IsStaff:       true,
		EmailVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	jobs := []models.Job{
		{
			UserID:       employer.ID,
			Title:        "Backend Engineer",
			Company:      "Acme Widgets",
			Description:  "Build and operate our Go services.",
			Requirements: "3+ years of Go, Postgres, Redis.",
			Location:     "Remote",
			JobType:      models.JobTypeFullTime,
			Salary:       models.Salary90to110,
			IsActive:     true,
			IsApproved:   true,
		},
		{
			UserID:       employer.ID,
			Title:        "Data Analyst Intern",
			Company:      "Acme Widgets",
			Description:  "Support the analytics team for a summer term.",
			Requirements: "SQL, spreadsheets, curiosity.",
			Location:     "Chicago, IL",
			JobType:      models.JobTypeInternship,
			Salary:       models.SalaryNegotiable,
			IsActive:     true,
			IsApproved:   false, // awaiting moderation
		},
	}
	for i := range jobs {
		if err := db.Create(&jobs[i]).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded dev data: 3 users (employer, seeker, admin), 2 jobs")
	return nil
}
