package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/staffdir/employee-directory/internal/auth"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
	"github.com/staffdir/employee-directory/internal/employee"
	"github.com/staffdir/employee-directory/internal/misc"
	"github.com/staffdir/employee-directory/internal/transport/middleware"
	"github.com/staffdir/employee-directory/internal/transport/swagger"
)

// maxRequestBody caps uploads; profile photos themselves are limited to 2 MB
// further down the stack.
const maxRequestBody = 10 << 20

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, employeeHandler *employee.Handler, miscHandler *misc.Handler, allowedOrigins []string, throttleLimit int, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.BodyLimit(maxRequestBody))
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if throttleLimit > 0 {
		router.Use(chiMiddleware.Throttle(throttleLimit))
	}

	// OpenAPI spec and Swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh-token", authHandler.RefreshToken)

			// Logout needs an authenticated caller even though the revoke
			// itself is keyed on the cookie.
			sr.Group(func(ar chi.Router) {
				ar.Use(authHandler.Middleware)
				ar.Post("/logout", authHandler.Logout)
			})
		})

		// Everything below requires a valid access token.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.Middleware)

			pr.Route("/misc", func(mr chi.Router) {
				mr.Get("/permissions", miscHandler.ListPermissions)
				mr.Get("/departments", miscHandler.ListDepartments)
				mr.Get("/locations", miscHandler.ListLocations)
			})

			pr.Route("/employees", func(er chi.Router) {
				er.Group(func(lr chi.Router) {
					lr.Use(auth.RequirePermission(coreEmployee.PermReadEmployee))
					lr.Get("/", employeeHandler.ListEmployees)
					lr.Get("/all", employeeHandler.ListAllEmployees)
					lr.Get("/reporting-managers", employeeHandler.ListReportingManagers)
				})

				er.Group(func(cr chi.Router) {
					cr.Use(auth.RequirePermission(coreEmployee.PermCreateEmployee))
					cr.Post("/", employeeHandler.CreateEmployee)
				})

				er.Group(func(gr chi.Router) {
					gr.Use(auth.CanAccessEmployee())
					gr.Get("/{id}", employeeHandler.GetEmployee)
				})

				er.Group(func(ur chi.Router) {
					ur.Use(auth.CanModifyEmployee())
					ur.Put("/{id}", employeeHandler.UpdateEmployee)
				})

				er.Group(func(dr chi.Router) {
					dr.Use(auth.CanDeleteEmployee())
					dr.Delete("/{id}", employeeHandler.DeleteEmployee)
				})
			})
		})
	})
}
