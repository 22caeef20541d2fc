package misc

import (
	errors "github.com/staffdir/employee-directory/internal"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

// Reference is an id/name pair used by the department and location listings.
type Reference struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Repository interface {
	ListPermissions() ([]coreEmployee.Permission, error)
	ListDepartments() ([]Reference, error)
	ListLocations() ([]Reference, error)
}

type ServiceAPI interface {
	ListPermissions() ([]coreEmployee.Permission, error)
	ListDepartments() ([]Reference, error)
	ListLocations() ([]Reference, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListPermissions() ([]coreEmployee.Permission, error) {
	permissions, err := s.repo.ListPermissions()
	if err != nil {
		return nil, errors.NewInternalError("failed to list permissions", err)
	}
	return permissions, nil
}

func (s *Service) ListDepartments() ([]Reference, error) {
	departments, err := s.repo.ListDepartments()
	if err != nil {
		return nil, errors.NewInternalError("failed to list departments", err)
	}
	return departments, nil
}

func (s *Service) ListLocations() ([]Reference, error) {
	locations, err := s.repo.ListLocations()
	if err != nil {
		return nil, errors.NewInternalError("failed to list locations", err)
	}
	return locations, nil
}
