package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/repository/contract"
	"ai-frontdesk-be/internal/repository/specification"
	"ai-frontdesk-be/internal/repository/unitofwork"
	"ai-frontdesk-be/pkg/embedding"
)

// In-memory doubles for the persistence layer. They honor the same
// contracts as the gorm implementations (nil on not-found, conditional
// resolve, cosine ranked search) so the services under test cannot tell
// the difference.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeStore struct {
	mu sync.Mutex

	nextId   uint
	requests map[uint]*entity.HelpRequest
	entries  map[string]*entity.KnowledgeEntry

	createErr error
	searchErr error
	upsertErr error

	// Invoked under the lock just before MarkResolved applies, letting a
	// test mutate the ledger between a service's read and its update.
	beforeResolve func(requests map[uint]*entity.HelpRequest, id uint)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextId:   1,
		requests: make(map[uint]*entity.HelpRequest),
		entries:  make(map[string]*entity.KnowledgeEntry),
	}
}

func (f *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) HelpRequestRepository() contract.HelpRequestRepository {
	return &fakeHelpRequestRepo{store: u.store}
}

func (u *fakeUow) KnowledgeEntryRepository() contract.KnowledgeEntryRepository {
	return &fakeKnowledgeRepo{store: u.store}
}

func (u *fakeUow) SupervisorRepository() contract.SupervisorRepository {
	return &fakeSupervisorRepo{store: u.store}
}

type fakeHelpRequestRepo struct {
	store *fakeStore
}

func (r *fakeHelpRequestRepo) Create(ctx context.Context, request *entity.HelpRequest) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	request.Id = s.nextId
	s.nextId++
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	clone := *request
	s.requests[request.Id] = &clone
	return nil
}

func matchRequest(req *entity.HelpRequest, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByLedgerID:
			if req.Id != sp.ID {
				return false
			}
		case specification.ByStatus:
			if req.Status != sp.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeHelpRequestRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HelpRequest, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if matchRequest(req, specs) {
			clone := *req
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeHelpRequestRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HelpRequest, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.HelpRequest
	for _, req := range s.requests {
		if matchRequest(req, specs) {
			clone := *req
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (r *fakeHelpRequestRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeHelpRequestRepo) MarkResolved(ctx context.Context, id uint, response string, answeredAt time.Time) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beforeResolve != nil {
		s.beforeResolve(s.requests, id)
	}
	req, ok := s.requests[id]
	if !ok || req.Status != "pending" {
		return 0, nil
	}
	req.Status = "resolved"
	req.SupervisorResponse = &response
	req.AnsweredAt = &answeredAt
	return 1, nil
}

type fakeKnowledgeRepo struct {
	store *fakeStore
}

func (r *fakeKnowledgeRepo) Upsert(ctx context.Context, entry *entity.KnowledgeEntry) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	clone := *entry
	s.entries[entry.Key] = &clone
	return nil
}

func (r *fakeKnowledgeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeEntry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, spec := range specs {
		if byKey, ok := spec.(specification.ByKey); ok {
			if entry, found := s.entries[byKey.Key]; found {
				clone := *entry
				return &clone, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeKnowledgeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.entries)), nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func (r *fakeKnowledgeRepo) SearchNearest(ctx context.Context, vec []float32, limit int) ([]*contract.ScoredKnowledgeEntry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var scored []*contract.ScoredKnowledgeEntry
	for _, entry := range s.entries {
		clone := *entry
		scored = append(scored, &contract.ScoredKnowledgeEntry{
			Entry:      &clone,
			Similarity: cosine(vec, entry.Embedding),
		})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

type fakeSupervisorRepo struct {
	store *fakeStore
}

func (r *fakeSupervisorRepo) Create(ctx context.Context, supervisor *entity.Supervisor) error {
	return nil
}

func (r *fakeSupervisorRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Supervisor, error) {
	return nil, nil
}

func (r *fakeSupervisorRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

// fakeEmbedder maps known phrases to fixed vectors so similarity between
// two texts is under the test's control. Unknown text gets its own axis.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	next    int
	err     error
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: make(map[string][]float32)}
}

const fakeDim = 8

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	v := make([]float32, fakeDim)
	v[f.next%fakeDim] = 1
	f.next++
	f.vectors[text] = v
	return v
}

// alias makes two texts embed to nearly identical vectors.
func (f *fakeEmbedder) alias(a, b string, similarity float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	va := f.vectorFor(a)
	vb := make([]float32, fakeDim)
	copy(vb, va)
	// Mix in an orthogonal component to hit the requested similarity.
	ortho := (f.next + 1) % fakeDim
	scale := math.Sqrt(1/(similarity*similarity) - 1)
	vb[ortho] += float32(scale)
	f.vectors[b] = vb
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.vectorFor(text)},
	}, nil
}

type fakeReindexQueue struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (q *fakeReindexQueue) Publish(ctx context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, payload)
	return nil
}

var errBoom = errors.New("boom")
