package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/staffdir/employee-directory/internal"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

var _ = ginkgo.Describe("Authorization Guards", func() {
	okHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	request := func(guard func(http.Handler) http.Handler, method, target string, caller *coreEmployee.Employee) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		router.With(guard).MethodFunc(method, "/employees/{id}", okHandler)

		req := httptest.NewRequest(method, target, nil)
		if caller != nil {
			req = req.WithContext(internal.ContextWithEmployee(req.Context(), caller))
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	errorMessage := func(rec *httptest.ResponseRecorder) string {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		msg, _ := body["error"].(string)
		return msg
	}

	withPermissions := func(id int64, names ...string) *coreEmployee.Employee {
		emp := &coreEmployee.Employee{ID: id}
		for i, name := range names {
			emp.Permissions = append(emp.Permissions, coreEmployee.Permission{ID: int64(i + 1), Name: name})
		}
		return emp
	}

	ginkgo.Describe("RequirePermission", func() {
		ginkgo.It("passes a caller holding the permission", func() {
			caller := withPermissions(1, coreEmployee.PermReadEmployee)
			rec := request(RequirePermission(coreEmployee.PermReadEmployee), http.MethodGet, "/employees/2", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("rejects a caller without the permission", func() {
			caller := withPermissions(1)
			rec := request(RequirePermission(coreEmployee.PermCreateEmployee), http.MethodGet, "/employees/2", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(errorMessage(rec)).To(gomega.ContainSubstring("CREATE_EMPLOYEE"))
		})

		ginkgo.It("rejects an unauthenticated request", func() {
			rec := request(RequirePermission(coreEmployee.PermReadEmployee), http.MethodGet, "/employees/2", nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("CanAccessEmployee", func() {
		ginkgo.It("always allows self-access", func() {
			caller := withPermissions(7)
			rec := request(CanAccessEmployee(), http.MethodGet, "/employees/7", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("requires READ_EMPLOYEE for other records", func() {
			caller := withPermissions(7)
			rec := request(CanAccessEmployee(), http.MethodGet, "/employees/8", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("allows reading others with READ_EMPLOYEE", func() {
			caller := withPermissions(7, coreEmployee.PermReadEmployee)
			rec := request(CanAccessEmployee(), http.MethodGet, "/employees/8", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("CanModifyEmployee", func() {
		ginkgo.It("always allows self-modification", func() {
			caller := withPermissions(7)
			rec := request(CanModifyEmployee(), http.MethodPut, "/employees/7", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("requires UPDATE_EMPLOYEE for other records", func() {
			caller := withPermissions(7)
			rec := request(CanModifyEmployee(), http.MethodPut, "/employees/8", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})

	ginkgo.Describe("CanDeleteEmployee", func() {
		ginkgo.It("forbids self-delete even with DELETE_EMPLOYEE", func() {
			caller := withPermissions(7, coreEmployee.PermDeleteEmployee)
			rec := request(CanDeleteEmployee(), http.MethodDelete, "/employees/7", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(errorMessage(rec)).To(gomega.Equal("Cannot delete your own account"))
		})

		ginkgo.It("allows deleting others with DELETE_EMPLOYEE", func() {
			caller := withPermissions(7, coreEmployee.PermDeleteEmployee)
			rec := request(CanDeleteEmployee(), http.MethodDelete, "/employees/8", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("rejects deleting others without DELETE_EMPLOYEE", func() {
			caller := withPermissions(7)
			rec := request(CanDeleteEmployee(), http.MethodDelete, "/employees/8", caller)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})
})
