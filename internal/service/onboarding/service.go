package onboarding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"communityhub/internal/model"
)

type Store interface {
	GetOrCreate(ctx context.Context, profileID, networkID string) (*model.OnboardingProgress, error)
	MarkItem(ctx context.Context, profileID, item string) error
	UpdateProgress(ctx context.Context, profileID string, percentage int, completed bool) error
	Dismiss(ctx context.Context, profileID string) error
	Reset(ctx context.Context, profileID string) error
}

// Service manages the member onboarding checklist. Rows are created
// lazily on first read and only change through explicit mark/dismiss/
// reset calls.
type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Get reads a member's checklist, creating it on first access.
func (s *Service) Get(ctx context.Context, profileID, networkID string) (*model.OnboardingProgress, error) {
	return s.store.GetOrCreate(ctx, profileID, networkID)
}

// MarkComplete sets one checklist item and recomputes the percentage.
func (s *Service) MarkComplete(ctx context.Context, profileID, networkID, item string) (*model.OnboardingProgress, error) {
	if !validItem(item) {
		return nil, fmt.Errorf("unknown onboarding item: %s", item)
	}

	// Ensure the row exists before updating it; first interaction may be
	// a mark, not a read.
	if _, err := s.store.GetOrCreate(ctx, profileID, networkID); err != nil {
		return nil, err
	}

	if err := s.store.MarkItem(ctx, profileID, item); err != nil {
		return nil, err
	}

	progress, err := s.store.GetOrCreate(ctx, profileID, networkID)
	if err != nil {
		return nil, err
	}

	pct := Percentage(progress)
	if err := s.store.UpdateProgress(ctx, profileID, pct, pct == 100); err != nil {
		return nil, err
	}
	progress.ProgressPercentage = pct
	progress.IsCompleted = pct == 100

	s.logger.Info("Onboarding item completed",
		zap.String("profile_id", profileID),
		zap.String("item", item),
		zap.Int("percentage", pct),
	)
	return progress, nil
}

// Dismiss hides the checklist without completing it.
func (s *Service) Dismiss(ctx context.Context, profileID, networkID string) error {
	if _, err := s.store.GetOrCreate(ctx, profileID, networkID); err != nil {
		return err
	}
	return s.store.Dismiss(ctx, profileID)
}

// Reset clears all progress, for members who want the tour again.
func (s *Service) Reset(ctx context.Context, profileID, networkID string) error {
	if _, err := s.store.GetOrCreate(ctx, profileID, networkID); err != nil {
		return err
	}
	return s.store.Reset(ctx, profileID)
}

// Percentage computes checklist completion over the fixed item list.
func Percentage(p *model.OnboardingProgress) int {
	done := 0
	for _, flag := range []bool{
		p.ProfileCompleted,
		p.AvatarUploaded,
		p.FirstPostCreated,
		p.FirstEventJoined,
		p.FirstCommentPosted,
	} {
		if flag {
			done++
		}
	}
	return done * 100 / len(model.OnboardingItems)
}

func validItem(item string) bool {
	for _, known := range model.OnboardingItems {
		if item == known {
			return true
		}
	}
	return false
}
