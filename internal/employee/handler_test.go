package employee

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/staffdir/employee-directory/internal"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
	"github.com/staffdir/employee-directory/internal/transport"
	"github.com/staffdir/employee-directory/pkg/logger"
)

// stubEmployeeService records the arguments the handler passes down.
type stubEmployeeService struct {
	listParams ListParams
	createDTO  *CreateEmployeeDTO
	updateDTO  *UpdateEmployeeDTO
	photo      *UploadedPhoto
	deletedID  int64
	deletedBy  int64
	err        error
}

func (s *stubEmployeeService) GetEmployee(id int64) (*coreEmployee.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &coreEmployee.Employee{ID: id, Email: "alice@company.com"}, nil
}

func (s *stubEmployeeService) ListEmployees(params ListParams) (*ListResult, error) {
	s.listParams = params
	return &ListResult{
		Employees:          []*coreEmployee.Employee{{ID: 1}},
		PaginationMetadata: PaginationMetadata{Total: 1, Page: 1, Limit: 10, TotalPages: 1},
	}, nil
}

func (s *stubEmployeeService) ListAllEmployees() ([]Summary, error) {
	return []Summary{{ID: 1, FirstName: "Alice", LastName: "Anderson"}}, nil
}

func (s *stubEmployeeService) ListReportingManagers() ([]Summary, error) {
	return nil, nil
}

func (s *stubEmployeeService) CreateEmployee(dto *CreateEmployeeDTO, photo *UploadedPhoto) (*coreEmployee.Employee, error) {
	s.createDTO = dto
	s.photo = photo
	if s.err != nil {
		return nil, s.err
	}
	return &coreEmployee.Employee{ID: 10, Email: dto.Email}, nil
}

func (s *stubEmployeeService) UpdateEmployee(id int64, dto *UpdateEmployeeDTO, photo *UploadedPhoto) (*coreEmployee.Employee, error) {
	s.updateDTO = dto
	s.photo = photo
	if s.err != nil {
		return nil, s.err
	}
	return &coreEmployee.Employee{ID: id}, nil
}

func (s *stubEmployeeService) DeleteEmployee(id, deletedBy int64) error {
	s.deletedID = id
	s.deletedBy = deletedBy
	return s.err
}

var _ = ginkgo.Describe("Employee Handler", func() {
	var (
		service *stubEmployeeService
		handler *Handler
		router  *chi.Mux
	)

	ginkgo.BeforeEach(func() {
		service = &stubEmployeeService{}
		handler = NewHandler(transport.NewBaseHandler(logger.L()), service)

		router = chi.NewRouter()
		router.Get("/employees", handler.ListEmployees)
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Put("/employees/{id}", handler.UpdateEmployee)
		router.Delete("/employees/{id}", handler.DeleteEmployee)
	})

	decodeBody := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		return body
	}

	ginkgo.Describe("ListEmployees", func() {
		ginkgo.It("parses paging, filters and sorting from the query", func() {
			req := httptest.NewRequest(http.MethodGet,
				"/employees?page=2&limit=10&search=ali&filters[departmentIds]=1,3&filters[locationIds]=2&sortField=lastName&sortOrder=desc", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.listParams.Page).To(gomega.Equal(2))
			gomega.Expect(service.listParams.Limit).To(gomega.Equal(10))
			gomega.Expect(service.listParams.Search).To(gomega.Equal("ali"))
			gomega.Expect(service.listParams.DepartmentIDs).To(gomega.Equal([]int64{1, 3}))
			gomega.Expect(service.listParams.LocationIDs).To(gomega.Equal([]int64{2}))
			gomega.Expect(service.listParams.SortField).To(gomega.Equal("lastName"))
			gomega.Expect(service.listParams.SortOrder).To(gomega.Equal("desc"))

			body := decodeBody(rec)
			data := body["data"].(map[string]interface{})
			meta := data["paginationMetadata"].(map[string]interface{})
			gomega.Expect(meta["total"]).To(gomega.BeNumerically("==", 1))
		})
	})

	ginkgo.Describe("GetEmployee", func() {
		ginkgo.It("rejects a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/abc", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("maps a missing employee to 404", func() {
			service.err = internal.ErrEmployeeNotFound

			req := httptest.NewRequest(http.MethodGet, "/employees/999", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(decodeBody(rec)["error"]).To(gomega.Equal("Employee not found"))
		})
	})

	ginkgo.Describe("CreateEmployee with multipart form", func() {
		buildForm := func(fields map[string]string, photoName string) (*bytes.Buffer, string) {
			buf := &bytes.Buffer{}
			writer := multipart.NewWriter(buf)
			for key, value := range fields {
				gomega.Expect(writer.WriteField(key, value)).To(gomega.Succeed())
			}
			if photoName != "" {
				part, err := writer.CreateFormFile("profilePhoto", photoName)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				_, err = part.Write([]byte("image-bytes"))
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			}
			gomega.Expect(writer.Close()).To(gomega.Succeed())
			return buf, writer.FormDataContentType()
		}

		ginkgo.It("decodes fields, permissions JSON and the photo", func() {
			body, contentType := buildForm(map[string]string{
				"email":       "new@company.com",
				"password":    "password123",
				"firstName":   "New",
				"lastName":    "Hire",
				"position":    "Engineer",
				"hireDate":    "2024-04-01",
				"reportsTo":   "1",
				"permissions": `["READ_EMPLOYEE","UPDATE_EMPLOYEE"]`,
			}, "me.png")

			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
			gomega.Expect(service.createDTO.Email).To(gomega.Equal("new@company.com"))
			gomega.Expect(*service.createDTO.ReportsTo).To(gomega.Equal(int64(1)))
			gomega.Expect(service.createDTO.Permissions).To(gomega.Equal([]string{"READ_EMPLOYEE", "UPDATE_EMPLOYEE"}))
			gomega.Expect(service.photo).NotTo(gomega.BeNil())
			gomega.Expect(service.photo.OriginalName).To(gomega.Equal("me.png"))
		})

		ginkgo.It("rejects a permissions field that is not a JSON array", func() {
			body, contentType := buildForm(map[string]string{
				"permissions": "READ_EMPLOYEE",
			}, "")

			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(decodeBody(rec)["error"]).To(gomega.Equal("Invalid permissions format"))
		})

		ginkgo.It("also accepts a plain JSON body", func() {
			req := httptest.NewRequest(http.MethodPost, "/employees",
				strings.NewReader(`{"email":"new@company.com","password":"password123","firstName":"New","lastName":"Hire","position":"Engineer","hireDate":"2024-04-01"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
			gomega.Expect(service.createDTO.Email).To(gomega.Equal("new@company.com"))
			gomega.Expect(service.photo).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("UpdateEmployee with multipart form", func() {
		ginkgo.It("distinguishes omitted fields from explicit clears", func() {
			buf := &bytes.Buffer{}
			writer := multipart.NewWriter(buf)
			gomega.Expect(writer.WriteField("position", "Staff Engineer")).To(gomega.Succeed())
			gomega.Expect(writer.WriteField("departmentId", "")).To(gomega.Succeed())
			gomega.Expect(writer.WriteField("removeProfilePhoto", "true")).To(gomega.Succeed())
			gomega.Expect(writer.Close()).To(gomega.Succeed())

			req := httptest.NewRequest(http.MethodPut, "/employees/5", buf)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(*service.updateDTO.Position).To(gomega.Equal("Staff Engineer"))
			gomega.Expect(service.updateDTO.Email).To(gomega.BeNil())
			gomega.Expect(service.updateDTO.RemoveProfilePhoto).To(gomega.BeTrue())

			updates := service.updateDTO.Updates()
			gomega.Expect(updates).To(gomega.HaveKey("department_id"))
			gomega.Expect(updates["department_id"]).To(gomega.BeNil())
			gomega.Expect(updates).NotTo(gomega.HaveKey("location_id"))
		})
	})

	ginkgo.Describe("DeleteEmployee", func() {
		ginkgo.It("passes the caller as the deleter", func() {
			caller := &coreEmployee.Employee{ID: 99}

			req := httptest.NewRequest(http.MethodDelete, "/employees/5", nil)
			req = req.WithContext(internal.ContextWithEmployee(req.Context(), caller))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.deletedID).To(gomega.Equal(int64(5)))
			gomega.Expect(service.deletedBy).To(gomega.Equal(int64(99)))
		})

		ginkgo.It("maps a blocked delete to 409", func() {
			service.err = internal.ErrHasReports
			caller := &coreEmployee.Employee{ID: 99}

			req := httptest.NewRequest(http.MethodDelete, "/employees/5", nil)
			req = req.WithContext(internal.ContextWithEmployee(req.Context(), caller))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
		})
	})
})
