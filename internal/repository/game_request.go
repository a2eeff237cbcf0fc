package repository

import (
	"context"
	"errors"
	"time"

	"brrads/internal/models"

	"gorm.io/gorm"
)

// ListRequestsQuery filters and pages game request listings.
type ListRequestsQuery struct {
	Search   string
	Statuses []models.RequestStatus
	OwnerID  uint
	Limit    int
	Offset   int
}

// GameRequestRepository defines the interface for game request data operations
type GameRequestRepository interface {
	Create(ctx context.Context, req *models.GameRequest) error
	GetByID(ctx context.Context, id uint) (*models.GameRequest, error)
	List(ctx context.Context, q ListRequestsQuery) ([]*models.GameRequest, int64, error)
	Update(ctx context.Context, req *models.GameRequest) error
	Delete(ctx context.Context, id uint) error
	CountCreatedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error)
	FindByNameForUser(ctx context.Context, gameName string, userID uint) (*models.GameRequest, error)
	FindByNameSince(ctx context.Context, gameName string, since time.Time) (*models.GameRequest, error)
	CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type gameRequestRepository struct {
	db *gorm.DB
}

// NewGameRequestRepository creates a new game request repository
func NewGameRequestRepository(db *gorm.DB) GameRequestRepository {
	return &gameRequestRepository{db: db}
}

func (r *gameRequestRepository) Create(ctx context.Context, req *models.GameRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *gameRequestRepository) GetByID(ctx context.Context, id uint) (*models.GameRequest, error) {
	var req models.GameRequest
	err := r.db.WithContext(ctx).
		Preload("RequestedByUser").
		Preload("DuplicateOfReq").
		First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *gameRequestRepository) List(ctx context.Context, q ListRequestsQuery) ([]*models.GameRequest, int64, error) {
	var requests []*models.GameRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.GameRequest{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"LOWER(game_name) LIKE LOWER(?) OR LOWER(requester_name) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	if len(q.Statuses) > 0 {
		query = query.Where("status IN ?", q.Statuses)
	}
	if q.OwnerID != 0 {
		query = query.Where("requested_by = ?", q.OwnerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("RequestedByUser").
		Preload("DuplicateOfReq").
		Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&requests).Error

	return requests, total, err
}

func (r *gameRequestRepository) Update(ctx context.Context, req *models.GameRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *gameRequestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.GameRequest{}, id).Error
}

func (r *gameRequestRepository) CountCreatedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GameRequest{}).
		Where("requested_by = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&count).Error
	return count, err
}

func (r *gameRequestRepository) FindByNameForUser(ctx context.Context, gameName string, userID uint) (*models.GameRequest, error) {
	var req models.GameRequest
	err := r.db.WithContext(ctx).
		Where("LOWER(game_name) = LOWER(?) AND requested_by = ?", gameName, userID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *gameRequestRepository) FindByNameSince(ctx context.Context, gameName string, since time.Time) (*models.GameRequest, error) {
	var req models.GameRequest
	err := r.db.WithContext(ctx).
		Where("LOWER(game_name) = LOWER(?) AND created_at >= ?", gameName, since).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *gameRequestRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GameRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *gameRequestRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GameRequest{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
