package employee

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/transport"
)

// maxMultipartMemory bounds the in-memory buffer for multipart parsing; the
// photo itself is capped separately by the asset service.
const maxMultipartMemory = 4 * 1024 * 1024

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: service}
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid employee id")
		return
	}

	emp, svcErr := h.Service.GetEmployee(id)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteSuccess(w, http.StatusOK, emp, "")
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	result, err := h.Service.ListEmployees(params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, result, "")
}

func (h *Handler) ListAllEmployees(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.ListAllEmployees()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, summaries, "")
}

func (h *Handler) ListReportingManagers(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.ListReportingManagers()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, summaries, "")
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	dto := &CreateEmployeeDTO{}
	var photo *UploadedPhoto

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			h.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		dto.Email = r.FormValue("email")
		dto.Password = r.FormValue("password")
		dto.FirstName = r.FormValue("firstName")
		dto.LastName = r.FormValue("lastName")
		dto.Phone = optionalString(r, "phone")
		dto.Position = r.FormValue("position")
		dto.HireDate = r.FormValue("hireDate")

		var appErr *internal.AppError
		if dto.DepartmentID, appErr = optionalID(r, "departmentId"); appErr != nil {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		if dto.LocationID, appErr = optionalID(r, "locationId"); appErr != nil {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		if dto.ReportsTo, appErr = optionalID(r, "reportsTo"); appErr != nil {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}

		if raw := r.FormValue("permissions"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &dto.Permissions); err != nil {
				h.WriteError(w, http.StatusBadRequest, "Invalid permissions format")
				return
			}
		}

		var err error
		photo, err = readPhoto(r)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	emp, svcErr := h.Service.CreateEmployee(dto, photo)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, emp, "Employee created successfully")
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid employee id")
		return
	}

	dto := &UpdateEmployeeDTO{}
	var photo *UploadedPhoto

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			h.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		dto.Email = presentString(r, "email")
		dto.Password = presentString(r, "password")
		dto.FirstName = presentString(r, "firstName")
		dto.LastName = presentString(r, "lastName")
		dto.Position = presentString(r, "position")
		dto.HireDate = presentString(r, "hireDate")
		dto.Phone = nullableString(r, dto, "phone")

		var appErr *internal.AppError
		if dto.DepartmentID, appErr = nullableID(r, dto, "departmentId"); appErr != nil {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		if dto.LocationID, appErr = nullableID(r, dto, "locationId"); appErr != nil {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		if dto.ReportsTo, appErr = nullableID(r, dto, "reportsTo"); appErr != nil {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}

		if raw := presentString(r, "permissions"); raw != nil {
			var names []string
			if err := json.Unmarshal([]byte(*raw), &names); err != nil {
				h.WriteError(w, http.StatusBadRequest, "Invalid permissions format")
				return
			}
			dto.Permissions = &names
		}

		dto.RemoveProfilePhoto = r.FormValue("removeProfilePhoto") == "true"

		var readErr error
		photo, readErr = readPhoto(r)
		if readErr != nil {
			h.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	emp, svcErr := h.Service.UpdateEmployee(id, dto, photo)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteSuccess(w, http.StatusOK, emp, "Employee updated successfully")
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid employee id")
		return
	}

	caller, ok := internal.EmployeeFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if svcErr := h.Service.DeleteEmployee(id, caller.ID); svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteSuccess(w, http.StatusOK, nil, "Employee deleted successfully")
}

func listParamsFromQuery(r *http.Request) ListParams {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return ListParams{
		Page:          page,
		Limit:         limit,
		Search:        strings.TrimSpace(q.Get("search")),
		DepartmentIDs: idList(q.Get("filters[departmentIds]")),
		LocationIDs:   idList(q.Get("filters[locationIds]")),
		ReportsToIDs:  idList(q.Get("filters[reportsToIds]")),
		SortField:     q.Get("sortField"),
		SortOrder:     q.Get("sortOrder"),
	}
}

// idList parses a comma separated id list, skipping anything non-numeric.
func idList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func readPhoto(r *http.Request) (*UploadedPhoto, error) {
	file, header, err := r.FormFile("profilePhoto")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &UploadedPhoto{
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Content:      content,
	}, nil
}

func optionalString(r *http.Request, name string) *string {
	if v := r.FormValue(name); v != "" {
		return &v
	}
	return nil
}

func optionalID(r *http.Request, name string) (*int64, *internal.AppError) {
	v := r.FormValue(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, internal.NewValidationError("Invalid " + name)
	}
	return &id, nil
}

// presentString distinguishes an omitted field from one sent empty.
func presentString(r *http.Request, name string) *string {
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// nullableString treats an explicitly empty value as a request to clear the
// field.
func nullableString(r *http.Request, dto *UpdateEmployeeDTO, name string) *string {
	v := presentString(r, name)
	if v == nil {
		return nil
	}
	if *v == "" {
		dto.MarkCleared(name)
		return nil
	}
	return v
}

func nullableID(r *http.Request, dto *UpdateEmployeeDTO, name string) (*int64, *internal.AppError) {
	v := presentString(r, name)
	if v == nil {
		return nil, nil
	}
	if *v == "" || *v == "null" {
		dto.MarkCleared(name)
		return nil, nil
	}
	id, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		return nil, internal.NewValidationError("Invalid " + name)
	}
	return &id, nil
}
