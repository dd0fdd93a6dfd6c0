package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/dto"
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/repository/specification"
	"ai-frontdesk-be/internal/repository/unitofwork"
	"ai-frontdesk-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the reindex topic: each message re-embeds one
// resolved ledger row and upserts it into the knowledge index. This is
// the recovery path when the synchronous upsert after a resolution failed,
// and the worker behind the bulk rebuild endpoint.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReindexKnowledgeMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal reindex message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Reindexing knowledge for request %d", payload.RequestId)

	if err := cs.reindexFromLedger(ctx, payload.RequestId); err != nil {
		log.Printf("[ERROR] Failed to reindex request %d: %v", payload.RequestId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}

// reindexFromLedger re-embeds one ledger row and upserts it into the
// knowledge index. A row that is gone or still unanswered is not an
// error; there is just nothing to index.
func (cs *consumerService) reindexFromLedger(ctx context.Context, requestId uint) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.HelpRequestRepository().FindOne(ctx, specification.ByLedgerID{ID: requestId})
	if err != nil {
		return err
	}
	if request == nil || request.SupervisorResponse == nil {
		log.Printf("[WARN] Request %d has no resolution to index", requestId)
		return nil
	}

	res, err := cs.embeddingProvider.Generate(ctx, request.Question, constant.EmbeddingTaskDocument)
	if err != nil {
		return err
	}

	entry := entity.KnowledgeEntry{
		Key:                entity.RequestKey(request.Id),
		Question:           request.Question,
		Status:             constant.HelpRequestStatusResolved,
		SupervisorResponse: *request.SupervisorResponse,
		Embedding:          res.Embedding.Values,
		AnsweredAt:         request.AnsweredAt,
	}

	if err := uow.KnowledgeEntryRepository().Upsert(ctx, &entry); err != nil {
		return err
	}

	log.Printf("[INFO] Knowledge entry %s reindexed", entry.Key)
	return nil
}
