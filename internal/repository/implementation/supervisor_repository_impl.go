package implementation

import (
	"context"
	"errors"

	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/mapper"
	"ai-frontdesk-be/internal/model"
	"ai-frontdesk-be/internal/repository/contract"
	"ai-frontdesk-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SupervisorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SupervisorMapper
}

func NewSupervisorRepository(db *gorm.DB) contract.SupervisorRepository {
	return &SupervisorRepositoryImpl{
		db:     db,
		mapper: mapper.NewSupervisorMapper(),
	}
}

func (r *SupervisorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SupervisorRepositoryImpl) Create(ctx context.Context, supervisor *entity.Supervisor) error {
	m := r.mapper.ToModel(supervisor)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*supervisor = *r.mapper.ToEntity(m)
	return nil
}

func (r *SupervisorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Supervisor, error) {
	var m model.Supervisor
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SupervisorRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Supervisor{}).Count(&count).Error
	return count, err
}
