package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"communityhub/internal/model"
)

// Score weights. Fixed; changing them reshuffles every leaderboard.
const (
	weightPosts    = 5
	weightEvents   = 3
	weightMessages = 1
	weightWiki     = 4
	weightPolls    = 2
	weightFiles    = 2
)

// Score computes the weighted engagement score for one member.
func Score(s model.EngagementStats) int {
	return s.PostsCount*weightPosts +
		s.EventsAttended*weightEvents +
		s.MessagesSent*weightMessages +
		s.WikiContributions*weightWiki +
		s.PollsParticipated*weightPolls +
		s.FilesShared*weightFiles
}

type StatsStore interface {
	ListForNetwork(ctx context.Context, networkID string) ([]model.EngagementStats, error)
}

type LeaderboardEntry struct {
	UserID     string  `json:"user_id"`
	Score      int     `json:"score"`
	Rank       int     `json:"rank"`
	Percentile float64 `json:"percentile"`
}

type Leaderboard struct {
	NetworkID   string             `json:"network_id"`
	Entries     []LeaderboardEntry `json:"entries"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Service computes leaderboards over the trigger-maintained counters,
// with a short-lived Redis cache in front of the scan.
type Service struct {
	store    StatsStore
	rdb      *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(store StatsStore, rdb *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if cacheTTL == 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		store:    store,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Leaderboard returns the network's full ranking, cache-first. Ranks are
// 1-based; ties keep the underlying fetch order, which the repository
// pins to user_id, so equal scores rank deterministically.
func (s *Service) Leaderboard(ctx context.Context, networkID string) (*Leaderboard, error) {
	if cached := s.fromCache(ctx, networkID); cached != nil {
		return cached, nil
	}

	stats, err := s.store.ListForNetwork(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement stats: %w", err)
	}

	board := Rank(networkID, stats)
	s.toCache(ctx, networkID, board)
	return board, nil
}

// MemberRank returns one member's leaderboard entry, for the motivational
// banner. Unknown members get a zero entry ranked last.
func (s *Service) MemberRank(ctx context.Context, networkID, userID string) (*LeaderboardEntry, error) {
	board, err := s.Leaderboard(ctx, networkID)
	if err != nil {
		return nil, err
	}

	for _, entry := range board.Entries {
		if entry.UserID == userID {
			return &entry, nil
		}
	}

	total := len(board.Entries) + 1
	return &LeaderboardEntry{
		UserID:     userID,
		Rank:       total,
		Percentile: float64(1) / float64(total) * 100,
	}, nil
}

// Rank builds the leaderboard from counters, preserving input order among
// equal scores (stable sort).
func Rank(networkID string, stats []model.EngagementStats) *Leaderboard {
	entries := make([]LeaderboardEntry, 0, len(stats))
	for _, st := range stats {
		entries = append(entries, LeaderboardEntry{
			UserID: st.UserID,
			Score:  Score(st),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	total := len(entries)
	for i := range entries {
		rank := i + 1
		entries[i].Rank = rank
		entries[i].Percentile = float64(total-rank+1) / float64(total) * 100
	}

	return &Leaderboard{
		NetworkID:   networkID,
		Entries:     entries,
		GeneratedAt: time.Now(),
	}
}

func cacheKey(networkID string) string {
	return "leaderboard:" + networkID
}

// fromCache is fail-open: an unreachable Redis just means a recompute.
func (s *Service) fromCache(ctx context.Context, networkID string) *Leaderboard {
	if s.rdb == nil {
		return nil
	}

	data, err := s.rdb.Get(ctx, cacheKey(networkID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Leaderboard cache read failed", zap.Error(err))
		}
		return nil
	}

	var board Leaderboard
	if err := json.Unmarshal(data, &board); err != nil {
		return nil
	}
	return &board
}

func (s *Service) toCache(ctx context.Context, networkID string, board *Leaderboard) {
	if s.rdb == nil {
		return
	}

	data, err := json.Marshal(board)
	if err != nil {
		return
	}

	if err := s.rdb.Set(ctx, cacheKey(networkID), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("Leaderboard cache write failed", zap.Error(err))
	}
}
