package internal

import (
	"context"
	"time"

	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

type ctxKey string

const ContextEmployeeKey ctxKey = "authenticatedEmployee"

// EmployeeFromContext returns the authenticated caller attached by the
// authentication gate, or nil when the request never passed it.
func EmployeeFromContext(ctx context.Context) (*coreEmployee.Employee, bool) {
	if ctx == nil {
		return nil, false
	}
	emp, ok := ctx.Value(ContextEmployeeKey).(*coreEmployee.Employee)
	return emp, ok && emp != nil
}

func ContextWithEmployee(ctx context.Context, emp *coreEmployee.Employee) context.Context {
	return context.WithValue(ctx, ContextEmployeeKey, emp)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
