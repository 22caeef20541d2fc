package postgres

import (
	goerrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/auth"
	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
)

// SessionRepository implements auth.SessionStore over the refresh_tokens
// table. Rows are revoked in place, never deleted, so the table keeps a
// session audit trail.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(employeeID int64, token string, expiresAt time.Time) error {
	row := directory.RefreshToken{
		Token:      token,
		EmployeeID: employeeID,
		ExpiresAt:  expiresAt,
		IsRevoked:  false,
	}
	return r.db.Create(&row).Error
}

func (r *SessionRepository) Find(token string) (*auth.Session, error) {
	var row directory.RefreshToken
	err := r.db.Preload("Employee").Where("token = ?", token).First(&row).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session := &auth.Session{
		ID:         row.ID,
		Token:      row.Token,
		EmployeeID: row.EmployeeID,
		ExpiresAt:  row.ExpiresAt,
		IsRevoked:  row.IsRevoked,
	}
	if row.Employee != nil {
		session.Email = row.Employee.Email
		session.EmployeeDeactivated = row.Employee.DeactivatedAt != nil
	}
	return session, nil
}

// Rotate revokes the old row and inserts the replacement in one transaction.
// The revoke is guarded on is_revoked = false: of two concurrent rotations of
// the same token exactly one sees a row to update, the other aborts.
func (r *SessionRepository) Rotate(oldToken, newToken string, employeeID int64, expiresAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&directory.RefreshToken{}).
			Where("token = ? AND is_revoked = ?", oldToken, false).
			Update("is_revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrRefreshTokenRevoked
		}

		return tx.Create(&directory.RefreshToken{
			Token:      newToken,
			EmployeeID: employeeID,
			ExpiresAt:  expiresAt,
			IsRevoked:  false,
		}).Error
	})
}

// Revoke is idempotent: unknown and already-revoked tokens are a no-op.
func (r *SessionRepository) Revoke(token string) error {
	return r.db.Model(&directory.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Update("is_revoked", true).Error
}
