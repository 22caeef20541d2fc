package employee

import (
	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

const (
	DefaultPage  = 1
	DefaultLimit = 15
	MaxLimit     = 100
)

// Sortable fields accepted by the list endpoint. Dotted names sort by a
// joined relation.
var sortableFields = map[string]bool{
	"firstName":           true,
	"lastName":            true,
	"email":               true,
	"position":            true,
	"hireDate":            true,
	"department.name":     true,
	"location.name":       true,
	"reportsTo.firstName": true,
}

type ListParams struct {
	Page          int
	Limit         int
	Search        string
	DepartmentIDs []int64
	LocationIDs   []int64
	ReportsToIDs  []int64
	SortField     string
	SortOrder     string
}

// Normalize clamps pagination and replaces unknown sort inputs with the
// default ordering, first name ascending.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if !sortableFields[p.SortField] {
		p.SortField = "firstName"
	}
	if p.SortOrder != "desc" {
		p.SortOrder = "asc"
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PaginationMetadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type ListResult struct {
	Employees          []*coreEmployee.Employee `json:"employees"`
	PaginationMetadata PaginationMetadata       `json:"paginationMetadata"`
}

// Summary is the minimal projection used by the /all and /reporting-managers
// listings.
type Summary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Repository is the persistence surface of the employee module. Lookups that
// find nothing return nil rather than an error.
type Repository interface {
	GetByID(id int64) (*directory.Employee, error)
	GetWithProfileAsset(id int64) (*directory.Employee, error)
	FindByEmail(email string) (*directory.Employee, error)
	List(params ListParams) ([]directory.Employee, int64, error)
	ListActiveSummaries() ([]Summary, error)
	ListReportingManagers() ([]Summary, error)
	CountActiveReports(managerID int64) (int64, error)
	Create(emp *directory.Employee, permissionNames []string) (*directory.Employee, error)
	Update(id int64, updates map[string]interface{}, permissionNames *[]string) (*directory.Employee, error)
	SoftDelete(id, deletedBy int64) (int64, error)
}

type ServiceAPI interface {
	GetEmployee(id int64) (*coreEmployee.Employee, error)
	ListEmployees(params ListParams) (*ListResult, error)
	ListAllEmployees() ([]Summary, error)
	ListReportingManagers() ([]Summary, error)
	CreateEmployee(dto *CreateEmployeeDTO, photo *UploadedPhoto) (*coreEmployee.Employee, error)
	UpdateEmployee(id int64, dto *UpdateEmployeeDTO, photo *UploadedPhoto) (*coreEmployee.Employee, error)
	DeleteEmployee(id, deletedBy int64) error
}
