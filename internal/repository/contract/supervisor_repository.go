package contract

import (
	"context"

	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/repository/specification"
)

type SupervisorRepository interface {
	Create(ctx context.Context, supervisor *entity.Supervisor) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Supervisor, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
