package config

import (
	"log"

	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDepartments(); err != nil {
		log.Printf("⚠️ Department seeder skipped: %v", err)
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDepartments seeds the standard municipal departments
func (s *Seeder) seedDepartments() error {
	var count int64
	s.db.Model(&models.Department{}).Count(&count)
	if count > 0 {
		return nil // Departments already seeded
	}

	departments := []models.Department{
		{Name: "Administration", Code: "ADM", Head: "Chief Administrative Officer", Description: "General administration and coordination"},
		{Name: "Finance", Code: "FIN", Head: "Finance Officer", Description: "Budgeting, accounting and revenue collection"},
		{Name: "Health", Code: "HLT", Head: "Health Coordinator", Description: "Public health programs and clinics"},
		{Name: "Education", Code: "EDU", Head: "Education Officer", Description: "School oversight and education programs"},
		{Name: "Infrastructure", Code: "INF", Head: "Chief Engineer", Description: "Roads, buildings and public works"},
		{Name: "Agriculture", Code: "AGR", Head: "Agriculture Officer", Description: "Agricultural extension and support"},
	}

	if err := s.db.Create(&departments).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d departments", len(departments))
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	// Check if an admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash(getEnv("SEED_ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "System Administrator",
		Email:    getEnv("SEED_ADMIN_EMAIL", "admin@palika.gov.np"),
		Password: hashedPassword,
		Role:     "admin",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
