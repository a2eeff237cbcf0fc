package service

import (
	"context"
	"time"

	"brrads/internal/cache"
	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "stats:dashboard"
	statsCacheTTL = 60 * time.Second
)

// StatsService builds the moderation dashboard aggregates. Results are cached
// briefly in Redis since the dashboard polls.
type StatsService struct {
	requestRepo repository.GameRequestRepository
	fanArtRepo  repository.FanArtRepository
	userRepo    repository.UserRepository
	streamRepo  repository.LiveStreamRepository
	rdb         *redis.Client
	now         func() time.Time
}

func NewStatsService(
	requestRepo repository.GameRequestRepository,
	fanArtRepo repository.FanArtRepository,
	userRepo repository.UserRepository,
	streamRepo repository.LiveStreamRepository,
	rdb *redis.Client,
) *StatsService {
	return &StatsService{
		requestRepo: requestRepo,
		fanArtRepo:  fanArtRepo,
		userRepo:    userRepo,
		streamRepo:  streamRepo,
		rdb:         rdb,
		now:         time.Now,
	}
}

// DashboardStats is the aggregate snapshot shown on the moderation dashboard.
type DashboardStats struct {
	Requests RequestStats `json:"requests"`
	FanArt   FanArtStats  `json:"fan_art"`
	Users    UserStats    `json:"users"`
	Streams  StreamStats  `json:"streams"`
}

type RequestStats struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Played    int64 `json:"played"`
	Duplicate int64 `json:"duplicate"`
	Last7Days int64 `json:"last_7_days"`
}

type FanArtStats struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Last7Days int64 `json:"last_7_days"`
}

type UserStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Moderators int64 `json:"moderators"`
	Admins     int64 `json:"admins"`
}

type StreamStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	ThisMonth int64 `json:"this_month"`
}

// GetDashboardStats assembles the dashboard snapshot, serving from cache when
// a recent one exists.
func (s *StatsService) GetDashboardStats(ctx context.Context, actor policy.Actor) (*DashboardStats, error) {
	if err := policy.Authorize(actor, policy.ActionViewStats, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	var cached DashboardStats
	if cache.GetJSON(ctx, s.rdb, statsCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.collect(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.SetJSON(ctx, s.rdb, statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

func (s *StatsService) collect(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	weekAgo := s.now().AddDate(0, 0, -7)

	requestCounts := []struct {
		status models.RequestStatus
		dest   *int64
	}{
		{models.RequestStatusPending, &stats.Requests.Pending},
		{models.RequestStatusApproved, &stats.Requests.Approved},
		{models.RequestStatusRejected, &stats.Requests.Rejected},
		{models.RequestStatusPlayed, &stats.Requests.Played},
		{models.RequestStatusDuplicate, &stats.Requests.Duplicate},
	}
	for _, rc := range requestCounts {
		count, err := s.requestRepo.CountByStatus(ctx, rc.status)
		if err != nil {
			return nil, err
		}
		*rc.dest = count
	}
	recent, err := s.requestRepo.CountCreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	stats.Requests.Last7Days = recent

	fanArtCounts := []struct {
		status models.FanArtStatus
		dest   *int64
	}{
		{models.FanArtStatusPending, &stats.FanArt.Pending},
		{models.FanArtStatusApproved, &stats.FanArt.Approved},
		{models.FanArtStatusRejected, &stats.FanArt.Rejected},
	}
	for _, fc := range fanArtCounts {
		count, err := s.fanArtRepo.CountByStatus(ctx, fc.status)
		if err != nil {
			return nil, err
		}
		*fc.dest = count
	}
	recent, err = s.fanArtRepo.CountCreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	stats.FanArt.Last7Days = recent

	if stats.Users.Total, err = s.userRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.Users.Active, err = s.userRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.Users.Moderators, err = s.userRepo.CountByRole(ctx, models.RoleModerator); err != nil {
		return nil, err
	}
	if stats.Users.Admins, err = s.userRepo.CountByRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}

	if stats.Streams.Total, err = s.streamRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.Streams.Active, err = s.streamRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if stats.Streams.ThisMonth, err = s.streamRepo.CountCreatedSince(ctx, monthStart); err != nil {
		return nil, err
	}

	return stats, nil
}
