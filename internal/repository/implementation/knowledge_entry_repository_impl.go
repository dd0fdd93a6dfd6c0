package implementation

import (
	"context"
	"errors"

	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/mapper"
	"ai-frontdesk-be/internal/model"
	"ai-frontdesk-be/internal/repository/contract"
	"ai-frontdesk-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KnowledgeEntryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeEntryMapper
}

func NewKnowledgeEntryRepository(db *gorm.DB) contract.KnowledgeEntryRepository {
	return &KnowledgeEntryRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeEntryMapper(),
	}
}

func (r *KnowledgeEntryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeEntryRepositoryImpl) Upsert(ctx context.Context, entry *entity.KnowledgeEntry) error {
	m := r.mapper.ToModel(entry)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"question", "status", "supervisor_response", "embedding_value", "answered_at", "updated_at",
			}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeEntryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeEntry, error) {
	var m model.KnowledgeEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KnowledgeEntryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.KnowledgeEntry{}).Count(&count).Error
	return count, err
}

func (r *KnowledgeEntryRepositoryImpl) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredKnowledgeEntry, error) {
	if limit <= 0 {
		limit = 1
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.KnowledgeEntry
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("knowledge_entries").
		Select("knowledge_entries.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredKnowledgeEntry, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredKnowledgeEntry{
			Entry:      r.mapper.ToEntity(&res.KnowledgeEntry),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
