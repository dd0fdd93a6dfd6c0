package mapper

import (
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/model"
)

type HelpRequestMapper struct{}

func NewHelpRequestMapper() *HelpRequestMapper {
	return &HelpRequestMapper{}
}

func (m *HelpRequestMapper) ToEntity(e *model.HelpRequest) *entity.HelpRequest {
	if e == nil {
		return nil
	}

	return &entity.HelpRequest{
		Id:                 e.Id,
		Question:           e.Question,
		Status:             e.Status,
		SupervisorResponse: e.SupervisorResponse,
		CreatedAt:          e.CreatedAt,
		AnsweredAt:         e.AnsweredAt,
	}
}

func (m *HelpRequestMapper) ToModel(e *entity.HelpRequest) *model.HelpRequest {
	if e == nil {
		return nil
	}

	return &model.HelpRequest{
		Id:                 e.Id,
		Question:           e.Question,
		Status:             e.Status,
		SupervisorResponse: e.SupervisorResponse,
		CreatedAt:          e.CreatedAt,
		AnsweredAt:         e.AnsweredAt,
	}
}
