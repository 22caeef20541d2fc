package employee

import (
	"time"

	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
)

// Permission names checked by the authorization guards. These match the rows
// seeded into the permissions table.
const (
	PermCreateEmployee = "CREATE_EMPLOYEE"
	PermReadEmployee   = "READ_EMPLOYEE"
	PermUpdateEmployee = "UPDATE_EMPLOYEE"
	PermDeleteEmployee = "DELETE_EMPLOYEE"
)

type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DepartmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type LocationRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ManagerRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type ReportRef struct {
	ID int64 `json:"id"`
}

type AssetRef struct {
	ID     int64   `json:"id"`
	URL    *string `json:"url"`
	CDNURL *string `json:"cloudFrontUrl"`
}

// Employee is the API projection of an employee record: the join rows behind
// the permission set are flattened to a plain permission array and the
// password hash is never carried. This is also the shape attached to the
// request context by the authentication gate.
type Employee struct {
	ID            int64          `json:"id"`
	Email         string         `json:"email"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Phone         *string        `json:"phone"`
	Position      string         `json:"position"`
	HireDate      time.Time      `json:"hireDate"`
	Department    *DepartmentRef `json:"department"`
	Location      *LocationRef   `json:"location"`
	ReportsTo     *ManagerRef    `json:"reportsTo"`
	Reports       []ReportRef    `json:"reports,omitempty"`
	ProfileAsset  *AssetRef      `json:"profileAsset"`
	Permissions   []Permission   `json:"permissions"`
	DeactivatedAt *time.Time     `json:"deactivatedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (e *Employee) HasPermission(name string) bool {
	for _, p := range e.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

// FromModel flattens a loaded datamodel row into the API projection. The
// caller decides which associations were preloaded; absent ones stay nil.
func FromModel(m *directory.Employee) *Employee {
	e := &Employee{
		ID:            m.ID,
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Phone:         m.Phone,
		Position:      m.Position,
		HireDate:      m.HireDate,
		Permissions:   make([]Permission, 0, len(m.Permissions)),
		DeactivatedAt: m.DeactivatedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	for _, p := range m.Permissions {
		e.Permissions = append(e.Permissions, Permission{ID: p.ID, Name: p.Name, Description: p.Description})
	}

	if m.Department != nil {
		e.Department = &DepartmentRef{ID: m.Department.ID, Name: m.Department.Name}
	}
	if m.Location != nil {
		e.Location = &LocationRef{ID: m.Location.ID, Name: m.Location.Name}
	}
	if m.ReportsTo != nil {
		e.ReportsTo = &ManagerRef{
			ID:        m.ReportsTo.ID,
			FirstName: m.ReportsTo.FirstName,
			LastName:  m.ReportsTo.LastName,
			Email:     m.ReportsTo.Email,
		}
	}
	if m.ProfileAsset != nil {
		e.ProfileAsset = &AssetRef{ID: m.ProfileAsset.ID, URL: m.ProfileAsset.URL, CDNURL: m.ProfileAsset.CDNURL}
	}
	for _, r := range m.Reports {
		e.Reports = append(e.Reports, ReportRef{ID: r.ID})
	}

	return e
}
