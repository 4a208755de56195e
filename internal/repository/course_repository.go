package repository

import (
	"gscormer_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindAll() ([]*model.ScormCourse, error) {
	var rows []*model.ScormCourse
	err := r.DB.Order("id asc").Find(&rows).Error
	return rows, err
}

func (r *CourseRepository) FindByID(id uint) (*model.ScormCourse, error) {
	var row model.ScormCourse
	err := r.DB.First(&row, id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CourseRepository) FindByIDs(ids []uint) ([]*model.ScormCourse, error) {
	var rows []*model.ScormCourse
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// UpdateContent saves the contenido draft of one row.
func (r *CourseRepository) UpdateContent(id uint, content string) error {
	return r.DB.Model(&model.ScormCourse{}).Where("id = ?", id).Update("contenido", content).Error
}

func (r *CourseRepository) UpdateStatus(id uint, status model.Status) error {
	return r.DB.Model(&model.ScormCourse{}).Where("id = ?", id).Update("estado", status).Error
}
