package mapper

import (
	"time"

	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeEntryMapper struct{}

func NewKnowledgeEntryMapper() *KnowledgeEntryMapper {
	return &KnowledgeEntryMapper{}
}

func (m *KnowledgeEntryMapper) ToEntity(e *model.KnowledgeEntry) *entity.KnowledgeEntry {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeEntry{
		Key:                e.Key,
		Question:           e.Question,
		Status:             e.Status,
		SupervisorResponse: e.SupervisorResponse,
		Embedding:          e.EmbeddingValue.Slice(),
		AnsweredAt:         e.AnsweredAt,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *KnowledgeEntryMapper) ToModel(e *entity.KnowledgeEntry) *model.KnowledgeEntry {
	if e == nil {
		return nil
	}

	out := &model.KnowledgeEntry{
		Key:                e.Key,
		Question:           e.Question,
		Status:             e.Status,
		SupervisorResponse: e.SupervisorResponse,
		EmbeddingValue:     pgvector.NewVector(e.Embedding),
		AnsweredAt:         e.AnsweredAt,
		CreatedAt:          e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}
