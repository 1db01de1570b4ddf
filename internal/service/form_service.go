package service

import (
	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
)

type FormService struct {
	Forms *repository.FormRepository
}

func NewFormService(forms *repository.FormRepository) *FormService {
	return &FormService{Forms: forms}
}

// FieldWithVersions is what the rule editor consumes: each field with every
// versioned snapshot and its choices, so rules can target any version.
type FieldWithVersions struct {
	model.FormField
	Versions []model.FieldVersion `json:"versions"`
}

func (s *FormService) List(page, pageSize int) ([]model.Form, int64, error) {
	return s.Forms.List(page, pageSize)
}

func (s *FormService) ListFields(formID uint) ([]FieldWithVersions, error) {
	if _, err := s.Forms.FindByID(formID); err != nil {
		return nil, err
	}

	fields, err := s.Forms.ListFields(formID)
	if err != nil {
		return nil, err
	}

	out := make([]FieldWithVersions, 0, len(fields))
	for _, f := range fields {
		versions, err := s.Forms.ListFieldVersions(f.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, FieldWithVersions{FormField: f, Versions: versions})
	}
	return out, nil
}
