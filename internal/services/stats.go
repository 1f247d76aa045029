package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/repos"
)

type UsageStats struct {
	TotalUsers  int64 `json:"total_users"`
	Active7Days int64 `json:"active_7_days"`
	Active1Days int64 `json:"active_1_days"`
}

type StatsService interface {
	Usage(ctx context.Context) (*UsageStats, error)
}

type statsService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewStatsService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) StatsService {
	serviceLog := baseLog.With("service", "StatsService")
	return &statsService{db: db, log: serviceLog, userRepo: userRepo}
}

func (ss *statsService) Usage(ctx context.Context) (*UsageStats, error) {
	total, err := ss.userRepo.CountAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	active7, err := ss.userRepo.CountActiveSince(ctx, nil, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	active1, err := ss.userRepo.CountActiveSince(ctx, nil, now.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	return &UsageStats{
		TotalUsers:  total,
		Active7Days: active7,
		Active1Days: active1,
	}, nil
}
