package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/staffdir/employee-directory/internal"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

// Service orchestrates login, refresh-token rotation and logout on top of the
// credential and session stores.
type Service struct {
	directory  EmployeeDirectory
	sessions   SessionStore
	tokens     TokenGenerator
	refreshTTL time.Duration
}

func NewService(directory EmployeeDirectory, sessions SessionStore, tokens TokenGenerator, refreshTTL time.Duration) *Service {
	return &Service{
		directory:  directory,
		sessions:   sessions,
		tokens:     tokens,
		refreshTTL: refreshTTL,
	}
}

func (s *Service) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// Login verifies the credential, issues an access token and persists a fresh
// session. Absent employee and wrong password fail identically.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employee, passwordHash, err := s.directory.FindActiveByEmail(dto.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to look up employee", err)
	}
	if employee == nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(dto.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(employee.ID, employee.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to sign access token", err)
	}

	refreshToken := s.tokens.NewRefreshTokenID()
	if err := s.sessions.Create(employee.ID, refreshToken, time.Now().Add(s.refreshTTL)); err != nil {
		return nil, errors.NewInternalError("failed to persist session", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         employee,
	}, nil
}

// Refresh validates the session and rotates the token pair. Each failure mode
// keeps its own message; all of them map to 401. A session belonging to a
// deactivated employee is revoked on sight.
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, errors.ErrRefreshTokenRequired
	}

	session, err := s.sessions.Find(refreshToken)
	if err != nil {
		return nil, errors.NewInternalError("failed to look up session", err)
	}
	if session == nil {
		return nil, errors.ErrRefreshTokenInvalid
	}
	if session.IsRevoked {
		return nil, errors.ErrRefreshTokenRevoked
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, errors.ErrRefreshTokenExpired
	}
	if session.EmployeeDeactivated {
		if err := s.sessions.Revoke(refreshToken); err != nil {
			return nil, errors.NewInternalError("failed to revoke session", err)
		}
		return nil, errors.ErrEmployeeInactive
	}

	accessToken, err := s.tokens.GenerateAccessToken(session.EmployeeID, session.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to sign access token", err)
	}

	newRefreshToken := s.tokens.NewRefreshTokenID()
	if err := s.sessions.Rotate(refreshToken, newRefreshToken, session.EmployeeID, time.Now().Add(s.refreshTTL)); err != nil {
		// A concurrent refresh already consumed this token.
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, errors.NewInternalError("failed to rotate session", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the session if it exists. Revoking an unknown or
// already-revoked token is a no-op.
func (s *Service) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.sessions.Revoke(refreshToken); err != nil {
		return errors.NewInternalError("failed to revoke session", err)
	}
	return nil
}

// AuthenticateToken verifies an access token and resolves the caller with its
// flattened permission set. Every verification failure collapses to the same
// generic error.
func (s *Service) AuthenticateToken(tokenString string) (*coreEmployee.Employee, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, errors.ErrInvalidAccessToken
	}

	employee, err := s.directory.GetWithPermissions(claims.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load employee", err)
	}
	if employee == nil {
		return nil, errors.ErrInvalidAccessToken
	}

	return employee, nil
}

// JWTTokenGenerator signs HS256 access tokens and mints uuid4 refresh ids
// (122 bits of entropy).
type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, accessTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: accessTTL,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(employeeID int64, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: employeeID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", employeeID),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

func (j *JWTTokenGenerator) VerifyAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func (j *JWTTokenGenerator) NewRefreshTokenID() string {
	return uuid.NewString()
}
