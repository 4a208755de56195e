package repository

import (
	"gscormer_backend/internal/model"

	"gorm.io/gorm"
)

type ScormRepository struct {
	DB *gorm.DB
}

func NewScormRepository(db *gorm.DB) *ScormRepository {
	return &ScormRepository{DB: db}
}

// FindAll returns the whole catalog ordered by id, the same full scan the
// console loads on every refresh.
func (r *ScormRepository) FindAll() ([]*model.ScormMaster, error) {
	var rows []*model.ScormMaster
	err := r.DB.Order("id asc").Find(&rows).Error
	return rows, err
}

func (r *ScormRepository) FindByID(id uint) (*model.ScormMaster, error) {
	var row model.ScormMaster
	err := r.DB.First(&row, id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ScormRepository) FindByIDs(ids []uint) ([]*model.ScormMaster, error) {
	var rows []*model.ScormMaster
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *ScormRepository) CountByCode(code string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ScormMaster{}).Where("scorm_code = ?", code).Count(&count).Error
	return count, err
}

func (r *ScormRepository) CountByLanguageCode(language, code string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ScormMaster{}).
		Where("scorm_idioma = ? AND scorm_code = ?", language, code).
		Count(&count).Error
	return count, err
}

func (r *ScormRepository) Create(row *model.ScormMaster) error {
	return r.DB.Create(row).Error
}

// UpdateFields writes only the given columns of one row, mirroring the
// update-by-id call of the remote store.
func (r *ScormRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.ScormMaster{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus is the single-id status write used by the workflow; bulk
// transitions issue one of these per affected id.
func (r *ScormRepository) UpdateStatus(id uint, status model.Status) error {
	return r.DB.Model(&model.ScormMaster{}).Where("id = ?", id).Update("scorm_estado", status).Error
}
