package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with reference data and sample employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"refresh_tokens", "employee_permissions", "employees", "assets", "permissions", "departments", "locations"} {
				if err := gormDB.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		departments := seedDepartments(gormDB)
		locations := seedLocations(gormDB)
		permissions := seedPermissions(gormDB)

		hireDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		ceo := seedEmployee(gormDB, &directory.Employee{
			Email:        "ceo@company.com",
			FirstName:    "John",
			LastName:     "Smith",
			Phone:        strPtr("+96170100200"),
			Position:     "Chief Executive Officer",
			HireDate:     hireDate,
			DepartmentID: &departments["Executive"].ID,
			LocationID:   &locations["Beirut Office"].ID,
		}, "ceo123456", cfg.Security.BCryptCost)
		grantPermissions(gormDB, ceo.ID, permissions, "CREATE_EMPLOYEE", "READ_EMPLOYEE", "UPDATE_EMPLOYEE", "DELETE_EMPLOYEE")
		fmt.Println("Seeded CEO:", ceo.Email)

		samples := []*directory.Employee{
			{
				Email:        "sarah.johnson@company.com",
				FirstName:    "Sarah",
				LastName:     "Johnson",
				Phone:        strPtr("+96170123456"),
				Position:     "Senior Software Engineer",
				HireDate:     hireDate,
				DepartmentID: &departments["Engineering"].ID,
				LocationID:   &locations["Tripoli Office"].ID,
				ReportsToID:  &ceo.ID,
			},
			{
				Email:        "mike.chen@company.com",
				FirstName:    "Mike",
				LastName:     "Chen",
				Phone:        strPtr("+96171123457"),
				Position:     "Marketing Manager",
				HireDate:     hireDate,
				DepartmentID: &departments["Marketing"].ID,
				LocationID:   &locations["Jounieh Office"].ID,
				ReportsToID:  &ceo.ID,
			},
			{
				Email:        "emma.wilson@company.com",
				FirstName:    "Emma",
				LastName:     "Wilson",
				Phone:        strPtr("+96176123458"),
				Position:     "Sales Representative",
				HireDate:     hireDate,
				DepartmentID: &departments["Sales"].ID,
				LocationID:   &locations["Saida Office"].ID,
				ReportsToID:  &ceo.ID,
			},
			{
				Email:        "ahmad.hassan@company.com",
				FirstName:    "Ahmad",
				LastName:     "Hassan",
				Phone:        strPtr("+96178234567"),
				Position:     "HR Manager",
				HireDate:     hireDate,
				DepartmentID: &departments["Human Resources"].ID,
				LocationID:   &locations["Beirut Office"].ID,
				ReportsToID:  &ceo.ID,
			},
			{
				Email:        "fatima.khoury@company.com",
				FirstName:    "Fatima",
				LastName:     "Khoury",
				Phone:        strPtr("+96179345678"),
				Position:     "Financial Analyst",
				HireDate:     hireDate,
				DepartmentID: &departments["Finance"].ID,
				LocationID:   &locations["Beirut Office"].ID,
				ReportsToID:  &ceo.ID,
			},
			{
				Email:        "david.rodriguez@company.com",
				FirstName:    "David",
				LastName:     "Rodriguez",
				Phone:        strPtr("+96170456789"),
				Position:     "Frontend Developer",
				HireDate:     hireDate,
				DepartmentID: &departments["Engineering"].ID,
				LocationID:   &locations["Remote"].ID,
				ReportsToID:  &ceo.ID,
			},
		}
		for _, emp := range samples {
			seeded := seedEmployee(gormDB, emp, "password123", cfg.Security.BCryptCost)
			grantPermissions(gormDB, seeded.ID, permissions, "READ_EMPLOYEE")
			fmt.Println("Seeded employee:", seeded.Email)
		}

		fmt.Println("Seeding complete")
	},
}

func strPtr(s string) *string {
	return &s
}

func seedDepartments(db *gorm.DB) map[string]*directory.Department {
	names := []string{"Executive", "Engineering", "Marketing", "Sales", "Human Resources", "Finance"}
	out := make(map[string]*directory.Department, len(names))
	for _, name := range names {
		row := &directory.Department{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(row).Error; err != nil {
			log.Fatalf("failed to seed department %s: %v", name, err)
		}
		out[name] = row
	}
	return out
}

func seedLocations(db *gorm.DB) map[string]*directory.Location {
	names := []string{"Beirut Office", "Tripoli Office", "Jounieh Office", "Saida Office", "Remote"}
	out := make(map[string]*directory.Location, len(names))
	for _, name := range names {
		row := &directory.Location{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(row).Error; err != nil {
			log.Fatalf("failed to seed location %s: %v", name, err)
		}
		out[name] = row
	}
	return out
}

func seedPermissions(db *gorm.DB) map[string]*directory.Permission {
	rows := []directory.Permission{
		{Name: "CREATE_EMPLOYEE", Description: "Can create new employees"},
		{Name: "READ_EMPLOYEE", Description: "Can read employee information"},
		{Name: "UPDATE_EMPLOYEE", Description: "Can update employee information"},
		{Name: "DELETE_EMPLOYEE", Description: "Can delete employees"},
	}
	out := make(map[string]*directory.Permission, len(rows))
	for i := range rows {
		row := &rows[i]
		if err := db.Where("name = ?", row.Name).FirstOrCreate(row).Error; err != nil {
			log.Fatalf("failed to seed permission %s: %v", row.Name, err)
		}
		out[row.Name] = row
	}
	return out
}

func seedEmployee(db *gorm.DB, emp *directory.Employee, password string, bcryptCost int) *directory.Employee {
	var existing directory.Employee
	if err := db.Where("email = ?", emp.Email).First(&existing).Error; err == nil {
		fmt.Println("employee already exists:", emp.Email)
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}
	emp.PasswordHash = string(hash)

	if err := db.Create(emp).Error; err != nil {
		log.Fatalf("failed to insert employee %s: %v", emp.Email, err)
	}
	return emp
}

func grantPermissions(db *gorm.DB, employeeID int64, permissions map[string]*directory.Permission, names ...string) {
	for _, name := range names {
		permission, ok := permissions[name]
		if !ok {
			log.Fatalf("unknown permission %s", name)
		}

		var count int64
		if err := db.Model(&directory.EmployeePermission{}).
			Where("employee_id = ? AND permission_id = ?", employeeID, permission.ID).
			Count(&count).Error; err != nil {
			log.Fatalf("failed to check grant %s: %v", name, err)
		}
		if count > 0 {
			continue
		}

		grant := directory.EmployeePermission{EmployeeID: employeeID, PermissionID: permission.ID}
		if err := db.Create(&grant).Error; err != nil {
			log.Fatalf("failed to grant permission %s: %v", name, err)
		}
	}
}
