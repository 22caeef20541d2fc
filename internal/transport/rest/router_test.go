package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/auth"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
	"github.com/staffdir/employee-directory/internal/employee"
	"github.com/staffdir/employee-directory/internal/misc"
	"github.com/staffdir/employee-directory/internal/transport"
	"github.com/staffdir/employee-directory/internal/transport/rest"
	"github.com/staffdir/employee-directory/pkg/logger"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Router Suite")
}

// stubAuthService drives the auth handler through the real route table.
type stubAuthService struct {
	employee  *coreEmployee.Employee
	loggedOut []string
}

func (s *stubAuthService) Login(auth.LoginDTO) (*auth.LoginResult, error) {
	return nil, errors.ErrInvalidCredentials
}

func (s *stubAuthService) Refresh(string) (*auth.TokenPair, error) {
	return nil, errors.ErrRefreshTokenInvalid
}

func (s *stubAuthService) Logout(token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubAuthService) AuthenticateToken(string) (*coreEmployee.Employee, error) {
	if s.employee == nil {
		return nil, errors.ErrInvalidAccessToken
	}
	return s.employee, nil
}

func (s *stubAuthService) RefreshTokenTTL() time.Duration {
	return time.Hour
}

var _ = Describe("Router", func() {
	var (
		service *stubAuthService
		router  *chi.Mux
	)

	BeforeEach(func() {
		service = &stubAuthService{}
		base := transport.NewBaseHandler(logger.L())
		authHandler := auth.NewHandler(service, false)
		employeeHandler := employee.NewHandler(base, nil)
		miscHandler := misc.NewHandler(base, nil)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, nil, authHandler, employeeHandler, miscHandler, nil, 0, logger.L())
	})

	Describe("Logout", func() {
		It("rejects requests without a bearer token", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: "refresh-id"})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(service.loggedOut).To(BeEmpty())
		})

		It("revokes the session for an authenticated caller", func() {
			service.employee = &coreEmployee.Employee{ID: 7, Email: "alice@company.com"}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: "refresh-id"})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.loggedOut).To(ConsistOf("refresh-id"))
		})
	})

	It("keeps login public", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"alice@company.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decodeError(rec)).To(Equal("Invalid email or password"))
	})

	It("keeps refresh public", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decodeError(rec)).To(Equal("Refresh token not found"))
	})
})

func decodeError(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
	}
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body.Error
}
