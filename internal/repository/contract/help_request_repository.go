package contract

import (
	"context"
	"time"

	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/repository/specification"
)

type HelpRequestRepository interface {
	Create(ctx context.Context, request *entity.HelpRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HelpRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HelpRequest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MarkResolved flips a pending row to resolved in a single conditional
	// update and reports how many rows changed. Zero rows means the id is
	// unknown or the row was already resolved; the caller distinguishes the
	// two with FindOne. A row can therefore never end up resolved with a
	// null response.
	MarkResolved(ctx context.Context, id uint, response string, answeredAt time.Time) (int64, error)
}
