package config

import (
	"log"
	"os"

	"gorm.io/gorm"

	"p9e.in/civicgrid/models"
)

// SeedDepartments creates the municipal departments if none exist. Codes
// must match what routing.DepartmentCodeFor produces.
func SeedDepartments(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Department{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Departments already seeded, skipping")
		return nil
	}

	departments := []models.Department{
		{Name: "Public Works Department", Code: "PWD", Email: "publicworks@city.gov", Phone: "+1-555-0101", Description: "Roads, infrastructure, and general maintenance", IsActive: true},
		{Name: "Sanitation Department", Code: "SAN", Email: "sanitation@city.gov", Phone: "+1-555-0102", Description: "Trash collection and waste management", IsActive: true},
		{Name: "Electrical Department", Code: "ELE", Email: "electrical@city.gov", Phone: "+1-555-0103", Description: "Street lights and electrical infrastructure", IsActive: true},
		{Name: "Parks and Recreation", Code: "PAR", Email: "parks@city.gov", Phone: "+1-555-0104", Description: "Parks, playgrounds, and recreational facilities", IsActive: true},
		{Name: "Traffic Management", Code: "TRA", Email: "traffic@city.gov", Phone: "+1-555-0105", Description: "Traffic signals and road signage", IsActive: true},
		{Name: "Water Department", Code: "WAT", Email: "water@city.gov", Phone: "+1-555-0106", Description: "Water supply and leak management", IsActive: true},
		{Name: "Code Enforcement", Code: "COD", Email: "enforcement@city.gov", Phone: "+1-555-0107", Description: "Noise complaints and code violations", IsActive: true},
		{Name: "General Services", Code: "GEN", Email: "general@city.gov", Phone: "+1-555-0108", Description: "General municipal services and other issues", IsActive: true},
	}

	if err := db.Create(&departments).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded %d departments", len(departments))
	return nil
}

// SeedAdminUser creates the initial admin account if no users exist. The
// password comes from ADMIN_PASSWORD (default only suitable for dev).
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Users already seeded, skipping")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := models.User{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     "admin@city.gov",
		Phone:     "+1-555-0100",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded admin user: %s", admin.Email)
	return nil
}

// RunAllSeeding runs all seeding operations in the correct order.
func RunAllSeeding(db *gorm.DB) error {
	log.Println("=== Starting Database Seeding ===")
	if err := SeedDepartments(db); err != nil {
		return err
	}
	if err := SeedAdminUser(db); err != nil {
		return err
	}
	log.Println("=== Database Seeding Complete ===")
	return nil
}
