package activity

import (
	"context"
	"fmt"
	"sort"

	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

// Service serves activity reads and administrative deletes. Unlike the
// Recorder, read failures propagate: "no log capability deployed" must stay
// distinguishable from "empty log".
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Recent returns the n most recently created entries, newest first. Each
// call restarts from the full log; there is no persistent cursor.
func (s *Service) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// All returns every entry ordered by creation time descending.
func (s *Service) All(ctx context.Context) ([]Entry, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("activity: repository not configured")
	}
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	// The store already orders by created_at; re-sort to keep the contract
	// independent of the backing query.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Delete removes a single entry by its row ID. Removal has no cascading
// effects.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.repo == nil {
		return fmt.Errorf("activity: repository not configured")
	}
	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
