package unitofwork

import (
	"context"

	"ai-frontdesk-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	HelpRequestRepository() contract.HelpRequestRepository
	KnowledgeEntryRepository() contract.KnowledgeEntryRepository
	SupervisorRepository() contract.SupervisorRepository
}
