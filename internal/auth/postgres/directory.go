package postgres

import (
	goerrors "errors"

	"gorm.io/gorm"

	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

// DirectoryRepository implements auth.EmployeeDirectory: the credential lookup
// for login and the caller resolution for the authentication gate.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func withAuthAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Permissions").
		Preload("Department").
		Preload("Location").
		Preload("ReportsTo").
		Preload("Reports").
		Preload("ProfileAsset")
}

// FindActiveByEmail returns the projection and password hash for a
// non-deactivated employee, or nils when no such employee exists.
func (r *DirectoryRepository) FindActiveByEmail(email string) (*coreEmployee.Employee, string, error) {
	var row directory.Employee
	err := withAuthAssociations(r.db).
		Where("email = ? AND deactivated_at IS NULL", email).
		First(&row).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return coreEmployee.FromModel(&row), row.PasswordHash, nil
}

func (r *DirectoryRepository) GetWithPermissions(id int64) (*coreEmployee.Employee, error) {
	var row directory.Employee
	err := withAuthAssociations(r.db).Where("id = ?", id).First(&row).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return coreEmployee.FromModel(&row), nil
}
