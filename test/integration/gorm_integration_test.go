package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/repository/specification"
	"ai-frontdesk-be/internal/repository/unitofwork"
	"ai-frontdesk-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) unitofwork.RepositoryFactory {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, database.Migrate(gormDB))

	return unitofwork.NewRepositoryFactory(gormDB)
}

func TestGormConnection(t *testing.T) {
	uowFactory := connect(t)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.HelpRequestRepository())
	assert.NotNil(t, uow.KnowledgeEntryRepository())
	assert.NotNil(t, uow.SupervisorRepository())
}

func TestHelpRequestLifecycle(t *testing.T) {
	uowFactory := connect(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	created := entity.HelpRequest{
		Question: "integration: do you sell gift cards?",
		Status:   constant.HelpRequestStatusPending,
	}
	require.NoError(t, uow.HelpRequestRepository().Create(ctx, &created))
	require.NotZero(t, created.Id)

	found, err := uow.HelpRequestRepository().FindOne(ctx, specification.ByLedgerID{ID: created.Id})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, constant.HelpRequestStatusPending, found.Status)
	assert.Nil(t, found.SupervisorResponse)

	rows, err := uow.HelpRequestRepository().MarkResolved(ctx, created.Id, "Yes, at the front desk.", time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	// Second resolve must be a no-op.
	rows, err = uow.HelpRequestRepository().MarkResolved(ctx, created.Id, "Different answer", time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestKnowledgeUpsertAndSearch(t *testing.T) {
	uowFactory := connect(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)
	repo := uow.KnowledgeEntryRepository()

	vec := make([]float32, 768)
	vec[0] = 1

	now := time.Now()
	err := repo.Upsert(ctx, &entity.KnowledgeEntry{
		Key:                entity.RequestKey(999999),
		Question:           "integration: what time do you close?",
		Status:             constant.HelpRequestStatusResolved,
		SupervisorResponse: "We close at 7pm.",
		Embedding:          vec,
		AnsweredAt:         &now,
		CreatedAt:          now,
	})
	require.NoError(t, err)

	// Same key again, last write wins.
	require.NoError(t, repo.Upsert(ctx, &entity.KnowledgeEntry{
		Key:                entity.RequestKey(999999),
		Question:           "integration: what time do you close?",
		Status:             constant.HelpRequestStatusResolved,
		SupervisorResponse: "We close at 8pm on Fridays.",
		Embedding:          vec,
		AnsweredAt:         &now,
		CreatedAt:          now,
	}))

	results, err := repo.SearchNearest(ctx, vec, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, entity.RequestKey(999999), results[0].Entry.Key)
	assert.Equal(t, "We close at 8pm on Fridays.", results[0].Entry.SupervisorResponse)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
}
