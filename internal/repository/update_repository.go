package repository

import (
	"errors"

	"gscormer_backend/internal/model"

	"gorm.io/gorm"
)

type UpdateRepository struct {
	DB *gorm.DB
}

func NewUpdateRepository(db *gorm.DB) *UpdateRepository {
	return &UpdateRepository{DB: db}
}

// Create appends one log entry. The log is append-only: there is no update
// or delete path on this table.
func (r *UpdateRepository) Create(entry *model.ScormUpdate) error {
	return r.DB.Create(entry).Error
}

func (r *UpdateRepository) FindByCode(code string) ([]*model.ScormUpdate, error) {
	var rows []*model.ScormUpdate
	err := r.DB.Where("scorm_code = ?", code).Order("fecha_modificacion desc").Find(&rows).Error
	return rows, err
}

// LatestByCode returns the most recent entry for a code, or nil when the
// code has no entries yet.
func (r *UpdateRepository) LatestByCode(code string) (*model.ScormUpdate, error) {
	var row model.ScormUpdate
	err := r.DB.Where("scorm_code = ?", code).Order("fecha_modificacion desc").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *UpdateRepository) FindAll() ([]*model.ScormUpdate, error) {
	var rows []*model.ScormUpdate
	err := r.DB.Order("fecha_modificacion desc").Find(&rows).Error
	return rows, err
}
