package postgres

import (
	goerrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	errors "github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
	"github.com/staffdir/employee-directory/internal/employee"
)

// sortColumns maps API sort fields to ORDER BY expressions. Dotted fields rely
// on the joins added by applySort.
var sortColumns = map[string]string{
	"firstName":           "employees.first_name",
	"lastName":            "employees.last_name",
	"email":               "employees.email",
	"position":            "employees.position",
	"hireDate":            "employees.hire_date",
	"department.name":     "departments.name",
	"location.name":       "locations.name",
	"reportsTo.firstName": "managers.first_name",
}

// EmployeeRepository implements employee.Repository using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Permissions").
		Preload("Department").
		Preload("Location").
		Preload("ReportsTo").
		Preload("Reports", "deactivated_at IS NULL").
		Preload("ProfileAsset")
}

func (r *EmployeeRepository) GetByID(id int64) (*directory.Employee, error) {
	var row directory.Employee
	err := withAssociations(r.db).Where("id = ?", id).First(&row).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) GetWithProfileAsset(id int64) (*directory.Employee, error) {
	var row directory.Employee
	err := r.db.Preload("ProfileAsset").Where("id = ?", id).First(&row).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) FindByEmail(email string) (*directory.Employee, error) {
	var row directory.Employee
	err := r.db.Where("email = ?", email).First(&row).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) List(params employee.ListParams) ([]directory.Employee, int64, error) {
	base := r.db.Model(&directory.Employee{}).Where("employees.deactivated_at IS NULL")

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		base = base.Where(
			"LOWER(employees.first_name) LIKE LOWER(?) OR LOWER(employees.last_name) LIKE LOWER(?) OR LOWER(employees.email) LIKE LOWER(?) OR LOWER(employees.position) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern)
	}
	if len(params.DepartmentIDs) > 0 {
		base = base.Where("employees.department_id IN ?", params.DepartmentIDs)
	}
	if len(params.LocationIDs) > 0 {
		base = base.Where("employees.location_id IN ?", params.LocationIDs)
	}
	if len(params.ReportsToIDs) > 0 {
		base = base.Where("employees.reports_to_id IN ?", params.ReportsToIDs)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applySort(base, params)

	var rows []directory.Employee
	err := withAssociations(query).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func applySort(db *gorm.DB, params employee.ListParams) *gorm.DB {
	column, ok := sortColumns[params.SortField]
	if !ok {
		return db.Order("employees.first_name ASC").Order("employees.id ASC")
	}

	switch params.SortField {
	case "department.name":
		db = db.Select("employees.*").Joins("LEFT JOIN departments ON departments.id = employees.department_id")
	case "location.name":
		db = db.Select("employees.*").Joins("LEFT JOIN locations ON locations.id = employees.location_id")
	case "reportsTo.firstName":
		db = db.Select("employees.*").Joins("LEFT JOIN employees managers ON managers.id = employees.reports_to_id")
	}

	direction := "ASC"
	if params.SortOrder == "desc" {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", column, direction)).Order("employees.id ASC")
}

func (r *EmployeeRepository) ListActiveSummaries() ([]employee.Summary, error) {
	var summaries []employee.Summary
	err := r.db.Model(&directory.Employee{}).
		Select("id, first_name, last_name").
		Where("deactivated_at IS NULL").
		Order("first_name ASC, last_name ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *EmployeeRepository) ListReportingManagers() ([]employee.Summary, error) {
	var summaries []employee.Summary
	err := r.db.Model(&directory.Employee{}).
		Select("DISTINCT employees.id, employees.first_name, employees.last_name").
		Joins("JOIN employees reports ON reports.reports_to_id = employees.id").
		Where("employees.deactivated_at IS NULL AND reports.deactivated_at IS NULL").
		Order("employees.first_name ASC, employees.last_name ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *EmployeeRepository) CountActiveReports(managerID int64) (int64, error) {
	var count int64
	err := r.db.Model(&directory.Employee{}).
		Where("reports_to_id = ? AND deactivated_at IS NULL", managerID).
		Count(&count).Error
	return count, err
}

func (r *EmployeeRepository) Create(emp *directory.Employee, permissionNames []string) (*directory.Employee, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(emp).Error; err != nil {
			return err
		}
		return replacePermissions(tx, emp.ID, permissionNames)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(emp.ID)
}

func (r *EmployeeRepository) Update(id int64, updates map[string]interface{}, permissionNames *[]string) (*directory.Employee, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&directory.Employee{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if permissionNames != nil {
			if err := tx.Where("employee_id = ?", id).Delete(&directory.EmployeePermission{}).Error; err != nil {
				return err
			}
			return replacePermissions(tx, id, *permissionNames)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// replacePermissions resolves names to permission rows and inserts the join
// records. An unrecognized name aborts the surrounding transaction.
func replacePermissions(tx *gorm.DB, employeeID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	var permissions []directory.Permission
	if err := tx.Where("name IN ?", names).Find(&permissions).Error; err != nil {
		return err
	}

	known := make(map[string]int64, len(permissions))
	for _, p := range permissions {
		known[p.Name] = p.ID
	}

	joins := make([]directory.EmployeePermission, 0, len(names))
	for _, name := range names {
		permissionID, ok := known[name]
		if !ok {
			return errors.NewValidationError(fmt.Sprintf("Unknown permission: %s", name))
		}
		joins = append(joins, directory.EmployeePermission{EmployeeID: employeeID, PermissionID: permissionID})
	}
	return tx.Create(&joins).Error
}

func (r *EmployeeRepository) SoftDelete(id, deletedBy int64) (int64, error) {
	result := r.db.Model(&directory.Employee{}).
		Where("id = ? AND deactivated_at IS NULL", id).
		Updates(map[string]interface{}{
			"deactivated_at": time.Now().UTC(),
			"deactivated_by": deletedBy,
		})
	return result.RowsAffected, result.Error
}
