package employee

import (
	"context"
	goerrors "errors"
	"log/slog"
	"math"
	"time"

	"golang.org/x/crypto/bcrypt"

	errors "github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/asset"
	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
	coreEmployee "github.com/staffdir/employee-directory/internal/core/employee"
)

// AssetStore is the slice of the asset service the employee module uses for
// profile photos.
type AssetStore interface {
	CreateAsset(ctx context.Context, upload *asset.Upload) (*directory.Asset, error)
	DeleteAsset(ctx context.Context, id int64) error
}

type Service struct {
	repo       Repository
	assets     AssetStore
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, assets AssetStore, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{repo: repo, assets: assets, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) GetEmployee(id int64) (*coreEmployee.Employee, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load employee", err)
	}
	if row == nil || row.DeactivatedAt != nil {
		return nil, errors.ErrEmployeeNotFound
	}
	return coreEmployee.FromModel(row), nil
}

func (s *Service) ListEmployees(params ListParams) (*ListResult, error) {
	params.Normalize()

	rows, total, err := s.repo.List(params)
	if err != nil {
		return nil, errors.NewInternalError("failed to list employees", err)
	}

	employees := make([]*coreEmployee.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, coreEmployee.FromModel(&rows[i]))
	}

	return &ListResult{
		Employees: employees,
		PaginationMetadata: PaginationMetadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: int64(math.Ceil(float64(total) / float64(params.Limit))),
		},
	}, nil
}

func (s *Service) ListAllEmployees() ([]Summary, error) {
	summaries, err := s.repo.ListActiveSummaries()
	if err != nil {
		return nil, errors.NewInternalError("failed to list employees", err)
	}
	return summaries, nil
}

func (s *Service) ListReportingManagers() ([]Summary, error) {
	summaries, err := s.repo.ListReportingManagers()
	if err != nil {
		return nil, errors.NewInternalError("failed to list reporting managers", err)
	}
	return summaries, nil
}

func (s *Service) CreateEmployee(dto *CreateEmployeeDTO, photo *UploadedPhoto) (*coreEmployee.Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(dto.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check email uniqueness", err)
	}
	if existing != nil {
		return nil, errors.ErrEmailExists
	}

	if dto.ReportsTo != nil {
		manager, err := s.repo.GetByID(*dto.ReportsTo)
		if err != nil {
			return nil, errors.NewInternalError("failed to load reporting manager", err)
		}
		if manager == nil || manager.DeactivatedAt != nil {
			return nil, errors.NewValidationError("Reporting manager not found")
		}
	}

	hireDate, appErr := parseHireDate(dto.HireDate)
	if appErr != nil {
		return nil, appErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	row := &directory.Employee{
		Email:        dto.Email,
		PasswordHash: string(hash),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Phone:        dto.Phone,
		Position:     dto.Position,
		HireDate:     hireDate,
		DepartmentID: dto.DepartmentID,
		LocationID:   dto.LocationID,
		ReportsToID:  dto.ReportsTo,
	}

	if photo != nil {
		stored, err := s.assets.CreateAsset(context.Background(), photoUpload(photo))
		if err != nil {
			return nil, err
		}
		row.ProfileAssetID = &stored.ID
	}

	created, err := s.repo.Create(row, dto.Permissions)
	if err != nil {
		var appErr *errors.AppError
		if goerrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.NewInternalError("failed to create employee", err)
	}
	return coreEmployee.FromModel(created), nil
}

func (s *Service) UpdateEmployee(id int64, dto *UpdateEmployeeDTO, photo *UploadedPhoto) (*coreEmployee.Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetWithProfileAsset(id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load employee", err)
	}
	if current == nil || current.DeactivatedAt != nil {
		return nil, errors.ErrEmployeeNotFound
	}

	if dto.Email != nil && *dto.Email != current.Email {
		existing, err := s.repo.FindByEmail(*dto.Email)
		if err != nil {
			return nil, errors.NewInternalError("failed to check email uniqueness", err)
		}
		if existing != nil && existing.ID != id {
			return nil, errors.ErrEmailExists
		}
	}

	if dto.ReportsTo != nil {
		if *dto.ReportsTo == id {
			return nil, errors.NewValidationError("Employee cannot report to themselves")
		}
		manager, err := s.repo.GetByID(*dto.ReportsTo)
		if err != nil {
			return nil, errors.NewInternalError("failed to load reporting manager", err)
		}
		if manager == nil || manager.DeactivatedAt != nil {
			return nil, errors.NewValidationError("Reporting manager not found")
		}
	}

	updates := dto.Updates()

	if dto.HireDate != nil {
		hireDate, appErr := parseHireDate(*dto.HireDate)
		if appErr != nil {
			return nil, appErr
		}
		updates["hire_date"] = hireDate
	}

	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, errors.NewInternalError("failed to hash password", err)
		}
		updates["password_hash"] = string(hash)
	}

	var replacedAssetID *int64
	if photo != nil {
		stored, err := s.assets.CreateAsset(context.Background(), photoUpload(photo))
		if err != nil {
			return nil, err
		}
		updates["profile_asset_id"] = stored.ID
		replacedAssetID = current.ProfileAssetID
	} else if dto.RemoveProfilePhoto && current.ProfileAssetID != nil {
		updates["profile_asset_id"] = nil
		replacedAssetID = current.ProfileAssetID
	}

	updated, err := s.repo.Update(id, updates, dto.Permissions)
	if err != nil {
		var appErr *errors.AppError
		if goerrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.NewInternalError("failed to update employee", err)
	}

	// The row no longer references the old photo; losing the cleanup only
	// leaks an orphan object, so a failure is logged and swallowed.
	if replacedAssetID != nil {
		if err := s.assets.DeleteAsset(context.Background(), *replacedAssetID); err != nil {
			s.logger.Warn("failed to delete replaced profile photo",
				slog.Int64("asset_id", *replacedAssetID),
				slog.String("error", err.Error()))
		}
	}

	return coreEmployee.FromModel(updated), nil
}

func (s *Service) DeleteEmployee(id, deletedBy int64) error {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return errors.NewInternalError("failed to load employee", err)
	}
	if current == nil || current.DeactivatedAt != nil {
		return errors.ErrEmployeeNotFound
	}

	reports, err := s.repo.CountActiveReports(id)
	if err != nil {
		return errors.NewInternalError("failed to count direct reports", err)
	}
	if reports > 0 {
		return errors.ErrHasReports
	}

	rows, err := s.repo.SoftDelete(id, deletedBy)
	if err != nil {
		return errors.NewInternalError("failed to deactivate employee", err)
	}
	if rows == 0 {
		// Raced with a concurrent delete; the row is already gone.
		return errors.ErrEmployeeNotFound
	}
	return nil
}

func parseHireDate(value string) (time.Time, *errors.AppError) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, errors.NewValidationError("Please provide a valid hireDate")
}

func photoUpload(photo *UploadedPhoto) *asset.Upload {
	return &asset.Upload{
		OriginalName: photo.OriginalName,
		MimeType:     photo.MimeType,
		Size:         photo.Size,
		Content:      photo.Content,
	}
}
