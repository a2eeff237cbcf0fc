package repository

import (
	"context"
	"errors"
	"time"

	"brrads/internal/models"

	"gorm.io/gorm"
)

// LiveStreamRepository defines the interface for live stream data operations
type LiveStreamRepository interface {
	// CreateActive inserts a new stream as the active one, deactivating every
	// other active stream in the same transaction.
	CreateActive(ctx context.Context, stream *models.LiveStream) error
	GetByID(ctx context.Context, id uint) (*models.LiveStream, error)
	GetCurrent(ctx context.Context) (*models.LiveStream, error)
	List(ctx context.Context, limit, offset int) ([]*models.LiveStream, int64, error)
	Update(ctx context.Context, stream *models.LiveStream) error
	Delete(ctx context.Context, id uint) error
	// ActivateExclusive makes the stream with the given id the only active one.
	// Deactivation of the others and activation of the target happen in one
	// transaction so the at-most-one-active invariant holds even under a crash.
	ActivateExclusive(ctx context.Context, id uint) (*models.LiveStream, error)
	Deactivate(ctx context.Context, id uint) (*models.LiveStream, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type liveStreamRepository struct {
	db *gorm.DB
}

// NewLiveStreamRepository creates a new live stream repository
func NewLiveStreamRepository(db *gorm.DB) LiveStreamRepository {
	return &liveStreamRepository{db: db}
}

func (r *liveStreamRepository) CreateActive(ctx context.Context, stream *models.LiveStream) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LiveStream{}).
			Where("is_active = ?", true).
			Updates(map[string]any{"is_active": false, "ended_at": now}).Error; err != nil {
			return err
		}

		stream.IsActive = true
		stream.StartedAt = &now
		stream.EndedAt = nil
		return tx.Create(stream).Error
	})
}

func (r *liveStreamRepository) GetByID(ctx context.Context, id uint) (*models.LiveStream, error) {
	var stream models.LiveStream
	err := r.db.WithContext(ctx).
		Preload("CreatedByUser").
		First(&stream, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *liveStreamRepository) GetCurrent(ctx context.Context) (*models.LiveStream, error) {
	var stream models.LiveStream
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&stream).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *liveStreamRepository) List(ctx context.Context, limit, offset int) ([]*models.LiveStream, int64, error) {
	var streams []*models.LiveStream
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LiveStream{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("CreatedByUser").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&streams).Error

	return streams, total, err
}

func (r *liveStreamRepository) Update(ctx context.Context, stream *models.LiveStream) error {
	return r.db.WithContext(ctx).Save(stream).Error
}

func (r *liveStreamRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LiveStream{}, id).Error
}

func (r *liveStreamRepository) ActivateExclusive(ctx context.Context, id uint) (*models.LiveStream, error) {
	var stream models.LiveStream
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stream, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.LiveStream{}).
			Where("is_active = ? AND id <> ?", true, id).
			Updates(map[string]any{"is_active": false, "ended_at": now}).Error; err != nil {
			return err
		}

		stream.IsActive = true
		if stream.StartedAt == nil {
			stream.StartedAt = &now
		}
		stream.EndedAt = nil
		return tx.Save(&stream).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *liveStreamRepository) Deactivate(ctx context.Context, id uint) (*models.LiveStream, error) {
	var stream models.LiveStream
	err := r.db.WithContext(ctx).First(&stream, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stream.IsActive = false
	stream.EndedAt = &now
	if err := r.db.WithContext(ctx).Save(&stream).Error; err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *liveStreamRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LiveStream{}).Count(&count).Error
	return count, err
}

func (r *liveStreamRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LiveStream{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *liveStreamRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LiveStream{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
