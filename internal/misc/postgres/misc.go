package postgres

import (
	"gorm.io/gorm"

	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
	"github.com/staffdir/employee-directory/internal/misc"
)

// ReferenceRepository serves the read-only reference tables.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) misc.Repository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListPermissions() ([]coreEmployee.Permission, error) {
	var rows []directory.Permission
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	permissions := make([]coreEmployee.Permission, 0, len(rows))
	for _, row := range rows {
		permissions = append(permissions, coreEmployee.Permission{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
		})
	}
	return permissions, nil
}

func (r *ReferenceRepository) ListDepartments() ([]misc.Reference, error) {
	var rows []directory.Department
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	departments := make([]misc.Reference, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, misc.Reference{ID: row.ID, Name: row.Name})
	}
	return departments, nil
}

func (r *ReferenceRepository) ListLocations() ([]misc.Reference, error) {
	var rows []directory.Location
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	locations := make([]misc.Reference, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, misc.Reference{ID: row.ID, Name: row.Name})
	}
	return locations, nil
}
