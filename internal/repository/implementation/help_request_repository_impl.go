package implementation

import (
	"context"
	"errors"
	"time"

	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/mapper"
	"ai-frontdesk-be/internal/model"
	"ai-frontdesk-be/internal/repository/contract"
	"ai-frontdesk-be/internal/repository/specification"

	"gorm.io/gorm"
)

type HelpRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HelpRequestMapper
}

func NewHelpRequestRepository(db *gorm.DB) contract.HelpRequestRepository {
	return &HelpRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewHelpRequestMapper(),
	}
}

func (r *HelpRequestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *HelpRequestRepositoryImpl) Create(ctx context.Context, request *entity.HelpRequest) error {
	m := r.mapper.ToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	// Read back the generated id and timestamps
	*request = *r.mapper.ToEntity(m)
	return nil
}

func (r *HelpRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HelpRequest, error) {
	var m model.HelpRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *HelpRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HelpRequest, error) {
	var models []*model.HelpRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.HelpRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *HelpRequestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.HelpRequest{}).Count(&count).Error
	return count, err
}

func (r *HelpRequestRepositoryImpl) MarkResolved(ctx context.Context, id uint, response string, answeredAt time.Time) (int64, error) {
	// Conditional update: only a pending row can transition. Status and
	// response flip together in one statement, so a partial resolution is
	// never observable.
	res := r.db.WithContext(ctx).
		Model(&model.HelpRequest{}).
		Where("id = ? AND status = ?", id, constant.HelpRequestStatusPending).
		Updates(map[string]interface{}{
			"status":              constant.HelpRequestStatusResolved,
			"supervisor_response": response,
			"answered_at":         answeredAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
