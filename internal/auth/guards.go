package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/staffdir/employee-directory/internal"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

// Guards are the authorization gate: composable predicates layered between
// the authentication middleware and a handler. Each one answers a single
// question about the caller and the target employee.

func writeGuardError(w http.ResponseWriter, appErr *internal.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(internal.ErrorResponse{Success: false, Error: appErr.Message})
}

func callerFromRequest(w http.ResponseWriter, r *http.Request) (*coreEmployee.Employee, bool) {
	caller, ok := internal.EmployeeFromContext(r.Context())
	if !ok {
		writeGuardError(w, internal.NewAuthenticationError("Authentication required"))
		return nil, false
	}
	return caller, true
}

func targetIDFromRequest(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

// RequirePermission passes when the caller's permission set contains name.
func RequirePermission(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := callerFromRequest(w, r)
			if !ok {
				return
			}
			if !caller.HasPermission(name) {
				writeGuardError(w, internal.NewForbiddenError(fmt.Sprintf("Permission '%s' required", name)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CanAccessEmployee allows self-access unconditionally; reading anyone else
// requires READ_EMPLOYEE.
func CanAccessEmployee() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := callerFromRequest(w, r)
			if !ok {
				return
			}
			if caller.ID == targetIDFromRequest(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !caller.HasPermission(coreEmployee.PermReadEmployee) {
				writeGuardError(w, internal.NewForbiddenError("Permission to read employee data required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CanModifyEmployee allows self-modification unconditionally; modifying anyone
// else requires UPDATE_EMPLOYEE.
func CanModifyEmployee() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := callerFromRequest(w, r)
			if !ok {
				return
			}
			if caller.ID == targetIDFromRequest(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !caller.HasPermission(coreEmployee.PermUpdateEmployee) {
				writeGuardError(w, internal.NewForbiddenError("Permission to update employee data required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CanDeleteEmployee forbids self-delete regardless of permissions; deleting
// anyone else requires DELETE_EMPLOYEE.
func CanDeleteEmployee() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := callerFromRequest(w, r)
			if !ok {
				return
			}
			if caller.ID == targetIDFromRequest(r) {
				writeGuardError(w, internal.NewForbiddenError("Cannot delete your own account"))
				return
			}
			if !caller.HasPermission(coreEmployee.PermDeleteEmployee) {
				writeGuardError(w, internal.NewForbiddenError("Permission to delete employees required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
