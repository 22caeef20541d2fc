package asset

import (
	"context"
	"fmt"

	errors "github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
)

// MaxFileSize caps profile photo uploads at 2 MB.
const MaxFileSize = 2 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Upload is an in-memory file received from a multipart request.
type Upload struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      []byte
}

func (u *Upload) Validate() *errors.AppError {
	if !allowedMimeTypes[u.MimeType] {
		return errors.NewValidationError("Only image files are allowed")
	}
	if u.Size > MaxFileSize {
		return errors.NewValidationError(fmt.Sprintf("File size must not exceed %d bytes", MaxFileSize))
	}
	return nil
}

// StoredObject is what the object store reports back after an upload.
type StoredObject struct {
	Key    string
	URL    string
	CDNURL string
}

// ObjectStorage is the external blob store holding profile photos. Deleting a
// key that no longer exists must not fail.
type ObjectStorage interface {
	Upload(ctx context.Context, upload *Upload, folder string) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type Repository interface {
	Create(a *directory.Asset) error
	GetByID(id int64) (*directory.Asset, error)
	Delete(id int64) error
}

// Service owns asset lifecycle: upload-then-record on create, and
// delete-blob-then-row on removal. Assets are owned by exactly one employee
// profile and are deleted outright once no longer referenced.
type Service struct {
	storage ObjectStorage
	repo    Repository
	bucket  string
	folder  string
}

func NewService(storage ObjectStorage, repo Repository, bucket, folder string) *Service {
	return &Service{storage: storage, repo: repo, bucket: bucket, folder: folder}
}

func (s *Service) CreateAsset(ctx context.Context, upload *Upload) (*directory.Asset, error) {
	if err := upload.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.storage.Upload(ctx, upload, s.folder)
	if err != nil {
		return nil, errors.NewInternalError("failed to upload file", err)
	}

	row := &directory.Asset{
		StorageKey:   stored.Key,
		Bucket:       s.bucket,
		OriginalName: upload.OriginalName,
		MimeType:     upload.MimeType,
		Size:         upload.Size,
		URL:          &stored.URL,
		CDNURL:       &stored.CDNURL,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, errors.NewInternalError("failed to record asset", err)
	}
	return row, nil
}

func (s *Service) DeleteAsset(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return errors.NewInternalError("failed to load asset", err)
	}
	if row == nil {
		return errors.ErrAssetNotFound
	}

	if err := s.storage.Delete(ctx, row.StorageKey); err != nil {
		return errors.NewInternalError("failed to delete stored file", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return errors.NewInternalError("failed to delete asset record", err)
	}
	return nil
}
