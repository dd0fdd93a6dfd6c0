package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/dto"
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/pkg/logger"
	"ai-frontdesk-be/internal/repository/specification"
	"ai-frontdesk-be/internal/repository/unitofwork"
	"ai-frontdesk-be/pkg/embedding"
	"ai-frontdesk-be/pkg/events"
	pktNats "ai-frontdesk-be/pkg/nats"
)

// ISupervisorService is the surface the supervisor UI talks to: list and
// inspect escalated questions, resolve them, and rebuild the knowledge
// index from the ledger.
type ISupervisorService interface {
	ListRequests(ctx context.Context, status string) ([]*dto.HelpRequestResponse, error)
	ShowRequest(ctx context.Context, id uint) (*dto.HelpRequestResponse, error)
	Resolve(ctx context.Context, req *dto.ResolveRequest) (*dto.ResolveResponse, error)
	RebuildKnowledge(ctx context.Context) (*dto.RebuildResponse, error)
}

type supervisorService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	reindexPublisher  IPublisherService
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewSupervisorService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	reindexPublisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISupervisorService {
	return &supervisorService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		reindexPublisher:  reindexPublisher,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func toHelpRequestResponse(e *entity.HelpRequest) *dto.HelpRequestResponse {
	return &dto.HelpRequestResponse{
		Id:                 e.Id,
		Question:           e.Question,
		Status:             e.Status,
		SupervisorResponse: e.SupervisorResponse,
		CreatedAt:          e.CreatedAt,
		AnsweredAt:         e.AnsweredAt,
	}
}

func (s *supervisorService) ListRequests(ctx context.Context, status string) ([]*dto.HelpRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}

	requests, err := uow.HelpRequestRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.HelpRequestResponse, len(requests))
	for i, r := range requests {
		out[i] = toHelpRequestResponse(r)
	}
	return out, nil
}

func (s *supervisorService) ShowRequest(ctx context.Context, id uint) (*dto.HelpRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := uow.HelpRequestRepository().FindOne(ctx, specification.ByLedgerID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return toHelpRequestResponse(request), nil
}

// Resolve applies the supervisor's answer: the ledger row transitions
// pending->resolved first and durably, then the answer is re-embedded into
// the knowledge index. An index failure leaves the ledger authoritative
// and queues an async reindex instead of failing the resolution.
func (s *supervisorService) Resolve(ctx context.Context, req *dto.ResolveRequest) (*dto.ResolveResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	request, err := uow.HelpRequestRepository().FindOne(ctx, specification.ByLedgerID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	answeredAt := time.Now()
	rows, err := uow.HelpRequestRepository().MarkResolved(ctx, req.Id, req.Response, answeredAt)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost the race: either a concurrent call resolved the row, or it
		// vanished between the read and the update.
		current, err := uow.HelpRequestRepository().FindOne(ctx, specification.ByLedgerID{ID: req.Id})
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrRequestNotFound
		}
		return nil, ErrAlreadyResolved
	}

	// The ledger must be durable before the index is touched.
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	reindexed := true
	if err := s.reindex(ctx, request.Question, req.Id, req.Response, answeredAt); err != nil {
		reindexed = false
		s.logger.Error("SupervisorService", "Knowledge reindex failed, queueing retry", map[string]interface{}{
			"request_id": req.Id,
			"error":      err.Error(),
		})
		s.queueReindex(ctx, req.Id)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewHelpResolved(req.Id, request.Question, req.Response)); err != nil {
			s.logger.Warn("SupervisorService", "Failed to publish HELP_RESOLVED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.ResolveResponse{
		Id:         req.Id,
		Status:     constant.HelpRequestStatusResolved,
		AnsweredAt: answeredAt,
		Reindexed:  reindexed,
	}, nil
}

// reindex embeds the original question and upserts it into the knowledge
// index under the ledger-derived key, so asking the same question again
// is answered automatically.
func (s *supervisorService) reindex(ctx context.Context, question string, id uint, response string, answeredAt time.Time) error {
	res, err := s.embeddingProvider.Generate(ctx, question, constant.EmbeddingTaskDocument)
	if err != nil {
		return &ReindexError{RequestId: id, Err: err}
	}

	entry := entity.KnowledgeEntry{
		Key:                entity.RequestKey(id),
		Question:           question,
		Status:             constant.HelpRequestStatusResolved,
		SupervisorResponse: response,
		Embedding:          res.Embedding.Values,
		AnsweredAt:         &answeredAt,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.KnowledgeEntryRepository().Upsert(ctx, &entry); err != nil {
		return &ReindexError{RequestId: id, Err: err}
	}
	return nil
}

func (s *supervisorService) queueReindex(ctx context.Context, id uint) {
	if s.reindexPublisher == nil {
		return
	}
	payload, err := json.Marshal(dto.ReindexKnowledgeMessage{RequestId: id})
	if err != nil {
		s.logger.Error("SupervisorService", "Failed to marshal reindex message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.reindexPublisher.Publish(ctx, payload); err != nil {
		s.logger.Error("SupervisorService", "Failed to queue reindex", map[string]interface{}{
			"request_id": id,
			"error":      err.Error(),
		})
	}
}

// RebuildKnowledge enqueues a reindex for every resolved ledger row. The
// vector index is derived state and can always be reconstructed this way.
func (s *supervisorService) RebuildKnowledge(ctx context.Context) (*dto.RebuildResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resolved, err := uow.HelpRequestRepository().FindAll(ctx,
		specification.ByStatus{Status: constant.HelpRequestStatusResolved},
	)
	if err != nil {
		return nil, err
	}

	for _, r := range resolved {
		s.queueReindex(ctx, r.Id)
	}

	s.logger.Info("SupervisorService", "Knowledge rebuild enqueued", map[string]interface{}{"count": len(resolved)})
	return &dto.RebuildResponse{Enqueued: len(resolved)}, nil
}
