package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

// RefreshCookieName is the httpOnly cookie carrying the opaque session id.
const RefreshCookieName = "refreshToken"

// Claims is the access-token payload: just enough to re-identify the caller.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and verifies access tokens and mints opaque
// refresh-token identifiers. The refresh id carries no claims; it is purely a
// lookup key into the session store.
type TokenGenerator interface {
	GenerateAccessToken(employeeID int64, email string) (string, error)
	VerifyAccessToken(tokenString string) (*Claims, error)
	NewRefreshTokenID() string
}

// Session is a refresh-token row joined with the flags the service needs to
// judge it. All session truth lives in storage so replicas stay stateless.
type Session struct {
	ID                  int64
	Token               string
	EmployeeID          int64
	Email               string
	ExpiresAt           time.Time
	IsRevoked           bool
	EmployeeDeactivated bool
}

// SessionStore persists refresh-token sessions. Rotate must be atomic: either
// the old row is revoked and the new one exists, or neither change takes
// effect.
type SessionStore interface {
	Create(employeeID int64, token string, expiresAt time.Time) error
	Find(token string) (*Session, error)
	Rotate(oldToken, newToken string, employeeID int64, expiresAt time.Time) error
	Revoke(token string) error
}

// EmployeeDirectory is the slice of employee storage the auth flow needs.
type EmployeeDirectory interface {
	FindActiveByEmail(email string) (*coreEmployee.Employee, string, error)
	GetWithPermissions(id int64) (*coreEmployee.Employee, error)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *coreEmployee.Employee
}

// ServiceAPI is what the HTTP layer sees of the auth service.
type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResult, error)
	Refresh(refreshToken string) (*TokenPair, error)
	Logout(refreshToken string) error
	AuthenticateToken(tokenString string) (*coreEmployee.Employee, error)
	RefreshTokenTTL() time.Duration
}
