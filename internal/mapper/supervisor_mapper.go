package mapper

import (
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/model"
)

type SupervisorMapper struct{}

func NewSupervisorMapper() *SupervisorMapper {
	return &SupervisorMapper{}
}

func (m *SupervisorMapper) ToEntity(e *model.Supervisor) *entity.Supervisor {
	if e == nil {
		return nil
	}

	return &entity.Supervisor{
		Id:           e.Id,
		Email:        e.Email,
		FullName:     e.FullName,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (m *SupervisorMapper) ToModel(e *entity.Supervisor) *model.Supervisor {
	if e == nil {
		return nil
	}

	return &model.Supervisor{
		Id:           e.Id,
		Email:        e.Email,
		FullName:     e.FullName,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
