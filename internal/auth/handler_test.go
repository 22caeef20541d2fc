package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	errors "github.com/staffdir/employee-directory/internal"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

// stubAuthService scripts the service responses so the handler's HTTP
// behavior can be tested in isolation.
type stubAuthService struct {
	loginResult  *LoginResult
	loginErr     error
	refreshPair  *TokenPair
	refreshErr   error
	loggedOut    []string
	authEmployee *coreEmployee.Employee
	authErr      error
}

func (s *stubAuthService) Login(dto LoginDTO) (*LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Refresh(refreshToken string) (*TokenPair, error) {
	return s.refreshPair, s.refreshErr
}

func (s *stubAuthService) Logout(refreshToken string) error {
	s.loggedOut = append(s.loggedOut, refreshToken)
	return nil
}

func (s *stubAuthService) AuthenticateToken(tokenString string) (*coreEmployee.Employee, error) {
	return s.authEmployee, s.authErr
}

func (s *stubAuthService) RefreshTokenTTL() time.Duration {
	return 7 * 24 * time.Hour
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		service *stubAuthService
		handler *Handler
	)

	ginkgo.BeforeEach(func() {
		service = &stubAuthService{}
		handler = NewHandler(service, false)
	})

	findCookie := func(rec *httptest.ResponseRecorder, name string) *http.Cookie {
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == name {
				return cookie
			}
		}
		return nil
	}

	decodeBody := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		return body
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("sets the refresh cookie and returns the access token and user", func() {
			service.loginResult = &LoginResult{
				AccessToken:  "access-jwt",
				RefreshToken: "refresh-id",
				User:         &coreEmployee.Employee{ID: 1, Email: "alice@company.com"},
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
				strings.NewReader(`{"email":"alice@company.com","password":"correct_password"}`))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			cookie := findCookie(rec, RefreshCookieName)
			gomega.Expect(cookie).NotTo(gomega.BeNil())
			gomega.Expect(cookie.Value).To(gomega.Equal("refresh-id"))
			gomega.Expect(cookie.HttpOnly).To(gomega.BeTrue())
			gomega.Expect(cookie.Path).To(gomega.Equal("/"))
			gomega.Expect(cookie.SameSite).To(gomega.Equal(http.SameSiteStrictMode))
			gomega.Expect(cookie.MaxAge).To(gomega.Equal(int((7 * 24 * time.Hour).Seconds())))

			body := decodeBody(rec)
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			data := body["data"].(map[string]interface{})
			gomega.Expect(data["accessToken"]).To(gomega.Equal("access-jwt"))
			gomega.Expect(data["user"].(map[string]interface{})["email"]).To(gomega.Equal("alice@company.com"))
		})

		ginkgo.It("maps invalid credentials to 401 with the failure envelope", func() {
			service.loginErr = errors.ErrInvalidCredentials

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
				strings.NewReader(`{"email":"alice@company.com","password":"wrong"}`))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			body := decodeBody(rec)
			gomega.Expect(body["success"]).To(gomega.BeFalse())
			gomega.Expect(body["error"]).To(gomega.Equal("Invalid email or password"))
		})

		ginkgo.It("rejects a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("RefreshToken", func() {
		ginkgo.It("rotates the cookie and returns a new access token", func() {
			service.refreshPair = &TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", nil)
			req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "old-refresh"})
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(findCookie(rec, RefreshCookieName).Value).To(gomega.Equal("new-refresh"))

			data := decodeBody(rec)["data"].(map[string]interface{})
			gomega.Expect(data["accessToken"]).To(gomega.Equal("new-access"))
		})

		ginkgo.It("returns 401 when the cookie is missing", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", nil)
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeBody(rec)["error"]).To(gomega.Equal("Refresh token not found"))
		})

		ginkgo.It("surfaces a revoked session as 401", func() {
			service.refreshErr = errors.ErrRefreshTokenRevoked

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", nil)
			req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "stolen"})
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("revokes the session and clears the cookie", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "refresh-id"})
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.loggedOut).To(gomega.ConsistOf("refresh-id"))

			cookie := findCookie(rec, RefreshCookieName)
			gomega.Expect(cookie.Value).To(gomega.BeEmpty())
			gomega.Expect(cookie.MaxAge).To(gomega.BeNumerically("<", 0))
		})

		ginkgo.It("succeeds without a cookie", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.loggedOut).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Middleware", func() {
		nextHandler := func(saw **coreEmployee.Employee) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if emp, ok := errors.EmployeeFromContext(r.Context()); ok {
					*saw = emp
				}
				w.WriteHeader(http.StatusOK)
			})
		}

		ginkgo.It("attaches the caller to the context", func() {
			service.authEmployee = &coreEmployee.Employee{ID: 42, Email: "alice@company.com"}

			var saw *coreEmployee.Employee
			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			handler.Middleware(nextHandler(&saw)).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(saw).NotTo(gomega.BeNil())
			gomega.Expect(saw.ID).To(gomega.Equal(int64(42)))
		})

		ginkgo.It("rejects requests without a bearer token", func() {
			var saw *coreEmployee.Employee
			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
			rec := httptest.NewRecorder()
			handler.Middleware(nextHandler(&saw)).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(saw).To(gomega.BeNil())
		})

		ginkgo.It("rejects invalid tokens", func() {
			service.authErr = errors.ErrInvalidAccessToken

			var saw *coreEmployee.Employee
			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
			req.Header.Set("Authorization", "Bearer bad-token")
			rec := httptest.NewRecorder()
			handler.Middleware(nextHandler(&saw)).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(saw).To(gomega.BeNil())
		})
	})
})
