package directory

import "time"

type Department struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Location struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex;not null"`
	Address    *string   `gorm:"column:address"`
	City       *string   `gorm:"column:city"`
	Country    *string   `gorm:"column:country"`
	PostalCode *string   `gorm:"column:postal_code"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Asset is uploaded-file metadata. The blob itself lives in object storage
// under StorageKey; rows are deleted when the owning employee stops
// referencing them.
type Asset struct {
	ID           int64     `gorm:"primaryKey"`
	StorageKey   string    `gorm:"column:storage_key;not null"`
	Bucket       string    `gorm:"column:bucket;not null"`
	OriginalName string    `gorm:"column:original_name"`
	MimeType     string    `gorm:"column:mime_type"`
	Size         int64     `gorm:"column:size"`
	URL          *string   `gorm:"column:url"`
	CDNURL       *string   `gorm:"column:cdn_url"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Employee struct {
	ID             int64        `gorm:"primaryKey"`
	Email          string       `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string       `gorm:"column:password_hash;not null"`
	FirstName      string       `gorm:"column:first_name;not null"`
	LastName       string       `gorm:"column:last_name;not null"`
	Phone          *string      `gorm:"column:phone"`
	Position       string       `gorm:"column:position"`
	HireDate       time.Time    `gorm:"column:hire_date;type:date"`
	DepartmentID   *int64       `gorm:"column:department_id"`
	Department     *Department  `gorm:"foreignKey:DepartmentID"`
	LocationID     *int64       `gorm:"column:location_id"`
	Location       *Location    `gorm:"foreignKey:LocationID"`
	ReportsToID    *int64       `gorm:"column:reports_to_id"`
	ReportsTo      *Employee    `gorm:"foreignKey:ReportsToID"`
	Reports        []Employee   `gorm:"foreignKey:ReportsToID"`
	ProfileAssetID *int64       `gorm:"column:profile_asset_id"`
	ProfileAsset   *Asset       `gorm:"foreignKey:ProfileAssetID"`
	Permissions    []Permission `gorm:"many2many:employee_permissions;joinForeignKey:EmployeeID;joinReferences:PermissionID"`
	DeactivatedAt  *time.Time   `gorm:"column:deactivated_at"`
	DeactivatedBy  *int64       `gorm:"column:deactivated_by"`
	CreatedAt      time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// EmployeePermission is the join row behind the many2many association above.
// Declared explicitly so the permission set can be replaced row-by-row inside
// the employee update transaction.
type EmployeePermission struct {
	EmployeeID   int64     `gorm:"column:employee_id;primaryKey"`
	PermissionID int64     `gorm:"column:permission_id;primaryKey"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (EmployeePermission) TableName() string {
	return "employee_permissions"
}

// RefreshToken is a session row. Rows are revoked, never deleted, so the
// table doubles as a session audit trail.
type RefreshToken struct {
	ID         int64     `gorm:"primaryKey"`
	Token      string    `gorm:"column:token;uniqueIndex;not null"`
	EmployeeID int64     `gorm:"column:employee_id;not null"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID"`
	ExpiresAt  time.Time `gorm:"column:expires_at;not null"`
	IsRevoked  bool      `gorm:"column:is_revoked;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
