// server/internal/requests/memory.go
package requests

import (
	"context"
	"sort"
	"sync"
	"time"

	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/models"
)

// MemoryStore keeps refill requests in a mutex-guarded map. It backs the
// tests and the no-mongo dev mode of the server; durability is the process
// lifetime only.
type MemoryStore struct {
	mu      sync.Mutex
	dir     *directory.Directory
	nextSeq int64
	seqByID map[string]int64
	byID    map[string]*models.RefillRequest
}

func NewMemoryStore(dir *directory.Directory) *MemoryStore {
	return &MemoryStore{
		dir:     dir,
		seqByID: make(map[string]int64),
		byID:    make(map[string]*models.RefillRequest),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Submit(ctx context.Context, in NewRefill) (*models.RefillRequest, error) {
	in, err := validateSubmission(s.dir, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := &models.RefillRequest{
		RequestID:   newRequestID(),
		RxNumber:    in.RxNumber,
		StoreID:     in.StoreID,
		PatientName: in.PatientName,
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextSeq++
	s.seqByID[req.RequestID] = s.nextSeq
	s.byID[req.RequestID] = req

	cp := *req
	return &cp, nil
}

// ClaimPending holds the lock for the whole select-and-transition step,
// the in-memory equivalent of the mongo CAS loop. The submission sequence
// number breaks createdAt ties, which the wall clock cannot resolve for
// back-to-back submits.
func (s *MemoryStore) ClaimPending(ctx context.Context, storeID string) ([]models.RefillRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*models.RefillRequest
	for _, req := range s.byID {
		if req.StoreID == storeID && req.Status == models.StatusPending {
			pending = append(pending, req)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return s.seqByID[pending[i].RequestID] < s.seqByID[pending[j].RequestID]
	})

	now := time.Now().UTC()
	claimed := []models.RefillRequest{}
	for _, req := range pending {
		claimed = append(claimed, *req) // pre-transition snapshot
		req.Status = models.StatusPrinting
		req.PrintedAt = &now
	}
	return claimed, nil
}

func (s *MemoryStore) MarkPrinted(ctx context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[requestID]
	if !ok || req.Status != models.StatusPrinting {
		return nil
	}
	req.Status = models.StatusPrinted
	return nil
}

func (s *MemoryStore) MarkPrintFailed(ctx context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[requestID]
	if !ok || req.Status != models.StatusPrinting {
		return nil
	}
	req.Status = models.StatusPending
	req.PrintedAt = nil
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, requestID string) (*models.RefillRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *MemoryStore) ListByStore(ctx context.Context, storeID string) ([]models.RefillRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.RefillRequest{}
	for _, req := range s.byID {
		if req.StoreID == storeID {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return s.seqByID[out[i].RequestID] < s.seqByID[out[j].RequestID]
	})
	return out, nil
}
