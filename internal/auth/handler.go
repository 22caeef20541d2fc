package auth

import (
	"encoding/json"
	"net/http"

	"github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/transport"
	"github.com/staffdir/employee-directory/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	SecureCookies bool
}

func NewHandler(svc ServiceAPI, secureCookies bool) *Handler {
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(logger.L()),
		Service:       svc,
		SecureCookies: secureCookies,
	}
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Service.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func refreshTokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("login failed", "email", dto.Email, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"accessToken": result.AccessToken,
		"user":        result.User,
	}, "Login successful")
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := refreshTokenFromCookie(r)
	if refreshToken == "" {
		h.WriteError(w, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	pair, err := h.Service.Refresh(refreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"accessToken": pair.AccessToken,
	}, "Token refreshed successfully")
}

// Logout is best-effort: a failed revoke is logged but never blocks the
// client-visible logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if refreshToken := refreshTokenFromCookie(r); refreshToken != "" {
		if err := h.Service.Logout(refreshToken); err != nil {
			h.Logger.Error("failed to revoke session on logout", "error", err)
		}
	}

	h.clearRefreshCookie(w)
	h.WriteSuccess(w, http.StatusOK, nil, "Logout successful")
}

// Middleware is the authentication gate: it verifies the bearer token, loads
// the caller with its flattened permission set and attaches it to the request
// context. Verification failures all collapse to one generic 401.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, internal.ErrAccessTokenRequired.Message)
			return
		}

		employee, err := h.Service.AuthenticateToken(token)
		if err != nil {
			h.Logger.Warn("authentication failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithEmployee(r.Context(), employee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
