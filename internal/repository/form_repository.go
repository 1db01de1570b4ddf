package repository

import (
	"errors"
	"retreat_screening_backend/internal/model"

	"gorm.io/gorm"
)

type FormRepository struct {
	DB *gorm.DB
}

func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{DB: db}
}

func (r *FormRepository) List(page, pageSize int) ([]model.Form, int64, error) {
	var forms []model.Form
	var total int64

	query := r.DB.Model(&model.Form{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&forms).Error
	return forms, total, err
}

func (r *FormRepository) FindByID(id uint) (*model.Form, error) {
	var f model.Form
	err := r.DB.First(&f, id).Error
	return &f, err
}

func (r *FormRepository) UpsertByExternalID(f *model.Form) (*model.Form, error) {
	var existing model.Form
	err := r.DB.Where("external_id = ?", f.ExternalID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.DB.Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FormRepository) ListFields(formID uint) ([]model.FormField, error) {
	var fields []model.FormField
	err := r.DB.Where("form_id = ?", formID).Order("id").Find(&fields).Error
	return fields, err
}

func (r *FormRepository) UpsertFieldByExternalID(f *model.FormField) (*model.FormField, error) {
	var existing model.FormField
	err := r.DB.Where("form_id = ? AND external_id = ?", f.FormID, f.ExternalID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.DB.Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FormRepository) FindFieldVersion(id string) (*model.FieldVersion, error) {
	var v model.FieldVersion
	err := r.DB.Preload("Choices").Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *FormRepository) ListFieldVersions(fieldID uint) ([]model.FieldVersion, error) {
	var versions []model.FieldVersion
	err := r.DB.Preload("Choices").Where("field_id = ?", fieldID).Order("version_num").Find(&versions).Error
	return versions, err
}

// EnsureFieldVersion returns the version with the given id, creating it (and
// its choices) when the webhook delivers a field snapshot we have not seen.
func (r *FormRepository) EnsureFieldVersion(v *model.FieldVersion) (*model.FieldVersion, error) {
	existing, err := r.FindFieldVersion(v.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.DB.Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}
