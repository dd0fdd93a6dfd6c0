package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/dto"
	"ai-frontdesk-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupervisorService(store *fakeStore, embedder *fakeEmbedder, queue *fakeReindexQueue) ISupervisorService {
	return NewSupervisorService(store, embedder, queue, nil, nopLogger{})
}

func escalateQuestion(t *testing.T, store *fakeStore, embedder *fakeEmbedder, question string) uint {
	t.Helper()
	svc := newTestFaqService(store, embedder)
	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: question})
	require.NoError(t, err)
	require.True(t, res.Escalated)
	return res.RequestId
}

func TestResolveUpdatesLedgerAndIndex(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	svc := newTestSupervisorService(store, embedder, &fakeReindexQueue{})

	res, err := svc.Resolve(context.Background(), &dto.ResolveRequest{
		Id:       id,
		Response: "Yes, behind the building.",
	})
	require.NoError(t, err)

	assert.Equal(t, id, res.Id)
	assert.Equal(t, constant.HelpRequestStatusResolved, res.Status)
	assert.True(t, res.Reindexed)

	req := store.requests[id]
	require.NotNil(t, req)
	assert.Equal(t, constant.HelpRequestStatusResolved, req.Status)
	require.NotNil(t, req.SupervisorResponse)
	assert.Equal(t, "Yes, behind the building.", *req.SupervisorResponse)
	require.NotNil(t, req.AnsweredAt)

	entry := store.entries[entity.RequestKey(id)]
	require.NotNil(t, entry, "resolution must index the answer under the ledger key")
	assert.Equal(t, "Do you have parking?", entry.Question)
	assert.Equal(t, "Yes, behind the building.", entry.SupervisorResponse)
	require.NotNil(t, entry.AnsweredAt)
}

func TestResolveThenReAskAnswersAutomatically(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	supervisor := newTestSupervisorService(store, embedder, &fakeReindexQueue{})
	_, err := supervisor.Resolve(context.Background(), &dto.ResolveRequest{
		Id:       id,
		Response: "Yes, behind the building.",
	})
	require.NoError(t, err)

	faq := newTestFaqService(store, embedder)
	res, err := faq.Ask(context.Background(), &dto.AskRequest{Question: "Do you have parking?"})
	require.NoError(t, err)

	assert.False(t, res.Escalated)
	assert.Equal(t, "Yes, behind the building.", res.Answer)
	assert.InDelta(t, 1.0, res.Confidence, 1e-6)
	assert.Len(t, store.requests, 1, "the re-ask must not create a second ledger row")
}

func TestResolveUnknownIdFails(t *testing.T) {
	store := newFakeStore()
	svc := newTestSupervisorService(store, newFakeEmbedder(), &fakeReindexQueue{})

	_, err := svc.Resolve(context.Background(), &dto.ResolveRequest{Id: 42, Response: "answer"})
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.Empty(t, store.entries)
}

func TestResolveTwiceFails(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	svc := newTestSupervisorService(store, embedder, &fakeReindexQueue{})

	_, err := svc.Resolve(context.Background(), &dto.ResolveRequest{Id: id, Response: "First answer."})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), &dto.ResolveRequest{Id: id, Response: "Second answer."})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	// The first answer must survive untouched.
	assert.Equal(t, "First answer.", *store.requests[id].SupervisorResponse)
	assert.Equal(t, "First answer.", store.entries[entity.RequestKey(id)].SupervisorResponse)
}

func TestResolveRowDeletedMidFlightReportsNotFound(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	// The row disappears between the service's read and its update.
	store.beforeResolve = func(requests map[uint]*entity.HelpRequest, reqId uint) {
		delete(requests, reqId)
	}

	svc := newTestSupervisorService(store, embedder, &fakeReindexQueue{})
	_, err := svc.Resolve(context.Background(), &dto.ResolveRequest{Id: id, Response: "answer"})

	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.Empty(t, store.entries)
}

func TestResolveConcurrentlyResolvesExactlyOnce(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	svc := newTestSupervisorService(store, embedder, &fakeReindexQueue{})

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.Resolve(context.Background(), &dto.ResolveRequest{Id: id, Response: "answer"})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyResolved)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestResolveIndexFailureStillResolves(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	store.upsertErr = errBoom
	queue := &fakeReindexQueue{}
	svc := newTestSupervisorService(store, embedder, queue)

	res, err := svc.Resolve(context.Background(), &dto.ResolveRequest{Id: id, Response: "answer"})
	require.NoError(t, err, "an index failure must not fail the resolution")
	assert.False(t, res.Reindexed)

	// The ledger is resolved, the index update is queued for retry.
	assert.Equal(t, constant.HelpRequestStatusResolved, store.requests[id].Status)
	require.Len(t, queue.payloads, 1)

	var msg dto.ReindexKnowledgeMessage
	require.NoError(t, json.Unmarshal(queue.payloads[0], &msg))
	assert.Equal(t, id, msg.RequestId)
}

func TestListRequestsFiltersByStatus(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	first := escalateQuestion(t, store, embedder, "Do you have parking?")
	second := escalateQuestion(t, store, embedder, "Do you sell gift cards?")

	svc := newTestSupervisorService(store, embedder, &fakeReindexQueue{})
	_, err := svc.Resolve(context.Background(), &dto.ResolveRequest{Id: first, Response: "Yes."})
	require.NoError(t, err)

	pending, err := svc.ListRequests(context.Background(), constant.HelpRequestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0].Id)

	resolved, err := svc.ListRequests(context.Background(), constant.HelpRequestStatusResolved)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, first, resolved[0].Id)

	all, err := svc.ListRequests(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestShowRequest(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	svc := newTestSupervisorService(store, embedder, &fakeReindexQueue{})

	res, err := svc.ShowRequest(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Do you have parking?", res.Question)
	assert.Equal(t, constant.HelpRequestStatusPending, res.Status)

	_, err = svc.ShowRequest(context.Background(), id+100)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRebuildKnowledgeEnqueuesResolvedRows(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	first := escalateQuestion(t, store, embedder, "Do you have parking?")
	second := escalateQuestion(t, store, embedder, "Do you sell gift cards?")

	queue := &fakeReindexQueue{}
	svc := newTestSupervisorService(store, embedder, queue)

	_, err := svc.Resolve(context.Background(), &dto.ResolveRequest{Id: first, Response: "Yes."})
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), &dto.ResolveRequest{Id: second, Response: "Yes, at the desk."})
	require.NoError(t, err)

	res, err := svc.RebuildKnowledge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Enqueued)
	assert.Len(t, queue.payloads, 2)
}

func TestConsumerReindexesFromQueue(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	// Resolve while the index is down; only the ledger is updated.
	store.upsertErr = errBoom
	queue := &fakeReindexQueue{}
	svc := newTestSupervisorService(store, embedder, queue)
	_, err := svc.Resolve(context.Background(), &dto.ResolveRequest{Id: id, Response: "Yes."})
	require.NoError(t, err)
	require.Empty(t, store.entries)

	// Index comes back; replay the queued message through the worker path.
	store.upsertErr = nil
	consumer := &consumerService{uowFactory: store, embeddingProvider: embedder}

	var msg dto.ReindexKnowledgeMessage
	require.NoError(t, json.Unmarshal(queue.payloads[0], &msg))
	require.NoError(t, consumer.reindexFromLedger(context.Background(), msg.RequestId))

	entry := store.entries[entity.RequestKey(id)]
	require.NotNil(t, entry)
	assert.Equal(t, "Yes.", entry.SupervisorResponse)
}

func TestShowRequestTimestamps(t *testing.T) {
	store := newFakeStore()
	embedder := newFakeEmbedder()
	id := escalateQuestion(t, store, embedder, "Do you have parking?")

	pendingView, err := newTestSupervisorService(store, embedder, &fakeReindexQueue{}).ShowRequest(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, pendingView.AnsweredAt)
	assert.Nil(t, pendingView.SupervisorResponse)

	before := time.Now()
	svc := newTestSupervisorService(store, embedder, &fakeReindexQueue{})
	_, err = svc.Resolve(context.Background(), &dto.ResolveRequest{Id: id, Response: "Yes."})
	require.NoError(t, err)

	resolvedView, err := svc.ShowRequest(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, resolvedView.AnsweredAt)
	assert.False(t, resolvedView.AnsweredAt.Before(before.Truncate(time.Second)))
}
