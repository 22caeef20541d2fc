package employee

import (
	errors "github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/core/common/validation"
)

// UploadedPhoto carries a profile photo out of the multipart form. The asset
// service validates size and mime type; the handler only reads the part.
type UploadedPhoto struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      []byte
}

type CreateEmployeeDTO struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Phone        *string  `json:"phone"`
	Position     string   `json:"position"`
	HireDate     string   `json:"hireDate"`
	DepartmentID *int64   `json:"departmentId"`
	LocationID   *int64   `json:"locationId"`
	ReportsTo    *int64   `json:"reportsTo"`
	Permissions  []string `json:"permissions"`
}

func (dto *CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().Email()
	v.Field("password", dto.Password).Required().MinLength(6)
	v.Field("firstName", dto.FirstName).Required().LengthBetween(1, 50)
	v.Field("lastName", dto.LastName).Required().LengthBetween(1, 50)
	v.Field("phone", dto.Phone).Required().E164Phone()
	v.Field("position", dto.Position).Required().LengthBetween(1, 100)
	v.Field("hireDate", dto.HireDate).Required().ISODate()
	v.Field("departmentId", dto.DepartmentID).PositiveInt()
	v.Field("locationId", dto.LocationID).PositiveInt()
	v.Field("reportsTo", dto.ReportsTo).PositiveInt()
	return v.Validate()
}

// UpdateEmployeeDTO is a partial update: nil fields are left untouched.
// Permissions replaces the whole set when present. RemoveProfilePhoto deletes
// the current photo when no replacement is uploaded.
type UpdateEmployeeDTO struct {
	Email              *string   `json:"email"`
	Password           *string   `json:"password"`
	FirstName          *string   `json:"firstName"`
	LastName           *string   `json:"lastName"`
	Phone              *string   `json:"phone"`
	Position           *string   `json:"position"`
	HireDate           *string   `json:"hireDate"`
	DepartmentID       *int64    `json:"departmentId"`
	LocationID         *int64    `json:"locationId"`
	ReportsTo          *int64    `json:"reportsTo"`
	Permissions        *[]string `json:"permissions"`
	RemoveProfilePhoto bool      `json:"removeProfilePhoto"`

	clearPhone      bool
	clearDepartment bool
	clearLocation   bool
	clearReportsTo  bool
}

// MarkCleared flags a nullable field that arrived as an explicit empty value,
// distinguishing "unset this" from "leave as is".
func (dto *UpdateEmployeeDTO) MarkCleared(field string) {
	switch field {
	case "phone":
		dto.clearPhone = true
	case "departmentId":
		dto.clearDepartment = true
	case "locationId":
		dto.clearLocation = true
	case "reportsTo":
		dto.clearReportsTo = true
	}
}

func (dto *UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Email != nil {
		v.Field("email", dto.Email).Required().Email()
	}
	if dto.Password != nil {
		v.Field("password", dto.Password).Required().MinLength(6)
	}
	if dto.FirstName != nil {
		v.Field("firstName", dto.FirstName).Required().LengthBetween(1, 50)
	}
	if dto.LastName != nil {
		v.Field("lastName", dto.LastName).Required().LengthBetween(1, 50)
	}
	v.Field("phone", dto.Phone).E164Phone()
	if dto.Position != nil {
		v.Field("position", dto.Position).Required().LengthBetween(1, 100)
	}
	if dto.HireDate != nil {
		v.Field("hireDate", dto.HireDate).Required().ISODate()
	}
	v.Field("departmentId", dto.DepartmentID).PositiveInt()
	v.Field("locationId", dto.LocationID).PositiveInt()
	v.Field("reportsTo", dto.ReportsTo).PositiveInt()
	return v.Validate()
}

// Updates maps the populated fields to datamodel column updates. Password is
// handled separately by the service so the hash never passes through here.
func (dto *UpdateEmployeeDTO) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.FirstName != nil {
		updates["first_name"] = *dto.FirstName
	}
	if dto.LastName != nil {
		updates["last_name"] = *dto.LastName
	}
	if dto.Phone != nil {
		updates["phone"] = *dto.Phone
	} else if dto.clearPhone {
		updates["phone"] = nil
	}
	if dto.Position != nil {
		updates["position"] = *dto.Position
	}
	if dto.DepartmentID != nil {
		updates["department_id"] = *dto.DepartmentID
	} else if dto.clearDepartment {
		updates["department_id"] = nil
	}
	if dto.LocationID != nil {
		updates["location_id"] = *dto.LocationID
	} else if dto.clearLocation {
		updates["location_id"] = nil
	}
	if dto.ReportsTo != nil {
		updates["reports_to_id"] = *dto.ReportsTo
	} else if dto.clearReportsTo {
		updates["reports_to_id"] = nil
	}
	return updates
}
