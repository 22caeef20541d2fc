package postgres

import (
	goerrors "errors"

	"gorm.io/gorm"

	"github.com/staffdir/employee-directory/internal/asset"
	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
)

// AssetRepository implements asset.Repository using GORM.
type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) asset.Repository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(a *directory.Asset) error {
	return r.db.Create(a).Error
}

func (r *AssetRepository) GetByID(id int64) (*directory.Asset, error) {
	var row directory.Asset
	err := r.db.Where("id = ?", id).First(&row).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *AssetRepository) Delete(id int64) error {
	return r.db.Delete(&directory.Asset{}, id).Error
}
