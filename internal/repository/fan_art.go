package repository

import (
	"context"
	"errors"
	"time"

	"brrads/internal/models"

	"gorm.io/gorm"
)

// ListFanArtQuery filters and pages fan art listings.
type ListFanArtQuery struct {
	Search          string
	Statuses        []models.FanArtStatus
	OwnerID         uint
	OrderByApproved bool
	Limit           int
	Offset          int
}

// FanArtRepository defines the interface for fan art data operations
type FanArtRepository interface {
	Create(ctx context.Context, art *models.FanArt) error
	GetByID(ctx context.Context, id uint) (*models.FanArt, error)
	List(ctx context.Context, q ListFanArtQuery) ([]*models.FanArt, int64, error)
	Update(ctx context.Context, art *models.FanArt) error
	Delete(ctx context.Context, id uint) error
	CountCreatedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error)
	CountByStatus(ctx context.Context, status models.FanArtStatus) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type fanArtRepository struct {
	db *gorm.DB
}

// NewFanArtRepository creates a new fan art repository
func NewFanArtRepository(db *gorm.DB) FanArtRepository {
	return &fanArtRepository{db: db}
}

func (r *fanArtRepository) Create(ctx context.Context, art *models.FanArt) error {
	return r.db.WithContext(ctx).Create(art).Error
}

func (r *fanArtRepository) GetByID(ctx context.Context, id uint) (*models.FanArt, error) {
	var art models.FanArt
	err := r.db.WithContext(ctx).
		Preload("SubmittedByUser").
		Preload("ApprovedByUser").
		First(&art, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &art, nil
}

func (r *fanArtRepository) List(ctx context.Context, q ListFanArtQuery) ([]*models.FanArt, int64, error) {
	var pieces []*models.FanArt
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FanArt{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(artist_name) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	if len(q.Statuses) > 0 {
		query = query.Where("status IN ?", q.Statuses)
	}
	if q.OwnerID != 0 {
		query = query.Where("submitted_by = ?", q.OwnerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if q.OrderByApproved {
		order = "approved_at DESC"
	}

	err := query.
		Preload("SubmittedByUser").
		Preload("ApprovedByUser").
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&pieces).Error

	return pieces, total, err
}

func (r *fanArtRepository) Update(ctx context.Context, art *models.FanArt) error {
	return r.db.WithContext(ctx).Save(art).Error
}

func (r *fanArtRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FanArt{}, id).Error
}

func (r *fanArtRepository) CountCreatedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FanArt{}).
		Where("submitted_by = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&count).Error
	return count, err
}

func (r *fanArtRepository) CountByStatus(ctx context.Context, status models.FanArtStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FanArt{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *fanArtRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FanArt{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
