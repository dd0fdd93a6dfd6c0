package service

import (
	"context"
	"strings"
	"time"

	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/dto"
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/pkg/logger"
	"ai-frontdesk-be/internal/repository/unitofwork"
	"ai-frontdesk-be/pkg/embedding"
	"ai-frontdesk-be/pkg/events"
	pktNats "ai-frontdesk-be/pkg/nats"

	"github.com/patrickmn/go-cache"
)

// IFaqService answers one conversational turn: either a trusted answer
// from the knowledge base, or an escalation to a human supervisor.
type IFaqService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type faqService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher

	// answerCache short-circuits repeat questions with an exact-text hit,
	// skipping the embedding call. Only trusted answers are cached.
	answerCache *cache.Cache

	threshold     float64
	fallbackReply string
	logger        logger.ILogger
}

type cachedAnswer struct {
	Answer string
	Score  float64
}

// routeDecision is the outcome of one retrieval pass. Trusted=false means
// the question escalates; Score carries the best similarity seen (zero
// when retrieval itself failed).
type routeDecision struct {
	Trusted bool
	Answer  string
	Score   float64
}

func NewFaqService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	threshold float64,
	fallbackReply string,
	answerCacheTTL time.Duration,
) IFaqService {
	return &faqService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		answerCache:       cache.New(answerCacheTTL, 10*time.Minute),
		threshold:         threshold,
		fallbackReply:     fallbackReply,
		logger:            log,
	}
}

func (s *faqService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	if hit, found := s.answerCache.Get(question); found {
		cached := hit.(*cachedAnswer)
		return &dto.AskResponse{
			Answer:     cached.Answer,
			Confidence: cached.Score,
		}, nil
	}

	decision := s.route(ctx, question)
	if decision.Trusted {
		s.answerCache.Set(question, &cachedAnswer{Answer: decision.Answer, Score: decision.Score}, cache.DefaultExpiration)
		return &dto.AskResponse{
			Answer:     decision.Answer,
			Confidence: decision.Score,
		}, nil
	}

	return s.escalate(ctx, question, decision.Score)
}

// route retrieves the nearest known answer and applies the trust gate.
// It is read-only and never returns an error: any provider or store
// failure degrades to an escalation, not a broken conversation.
func (s *faqService) route(ctx context.Context, question string) routeDecision {
	res, err := s.embeddingProvider.Generate(ctx, question, constant.EmbeddingTaskQuery)
	if err != nil {
		embErr := &EmbeddingError{Err: err}
		s.logger.Warn("FaqService", "Embedding failed, escalating", map[string]interface{}{"error": embErr.Error()})
		return routeDecision{}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := uow.KnowledgeEntryRepository().SearchNearest(ctx, res.Embedding.Values, 1)
	if err != nil {
		storeErr := &StoreQueryError{Err: err}
		s.logger.Warn("FaqService", "Knowledge search failed, escalating", map[string]interface{}{"error": storeErr.Error()})
		return routeDecision{}
	}

	if len(matches) == 0 {
		return routeDecision{}
	}

	best := matches[0]
	score := best.Similarity
	answer := best.Entry.SupervisorResponse

	// Strictly above the threshold: a score of exactly the threshold
	// still escalates. The gate is deliberately high; a needless
	// escalation costs a human a few seconds, a wrong answer costs trust.
	if answer != "" && score > s.threshold {
		return routeDecision{Trusted: true, Answer: answer, Score: score}
	}
	return routeDecision{Score: score}
}

// escalate records the question in the ledger and alerts a supervisor.
// The acknowledgement is returned even when the ledger write fails: the
// error is reported alongside the response so the caller can alert on it
// while the turn still ends gracefully.
func (s *faqService) escalate(ctx context.Context, question string, score float64) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request := entity.HelpRequest{
		Question:  question,
		Status:    constant.HelpRequestStatusPending,
		CreatedAt: time.Now(),
	}

	if err := uow.HelpRequestRepository().Create(ctx, &request); err != nil {
		persErr := &PersistenceError{Err: err}
		s.logger.Error("FaqService", "Failed to log help request", map[string]interface{}{
			"question": question,
			"error":    err.Error(),
		})
		return &dto.AskResponse{
			Answer:     s.fallbackReply,
			Confidence: score,
			Escalated:  true,
		}, persErr
	}

	s.logger.Info("FaqService", "Question escalated", map[string]interface{}{
		"request_id": request.Id,
		"confidence": score,
	})

	// Notification is auxiliary; delivery failure never fails the turn.
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewHelpRequested(request.Id, question)); err != nil {
			s.logger.Warn("FaqService", "Failed to publish HELP_REQUESTED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.AskResponse{
		Answer:     s.fallbackReply,
		Confidence: score,
		Escalated:  true,
		RequestId:  request.Id,
	}, nil
}
