package service

import (
	"context"
	"regexp"
	"strings"

	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"
)

// youtubeURLPattern accepts youtube.com and youtu.be links, with or without
// scheme and www.
var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

// LiveStreamService manages stream announcements. At most one stream is
// active at any time; the repository enforces that transactionally.
type LiveStreamService struct {
	streamRepo repository.LiveStreamRepository
}

func NewLiveStreamService(streamRepo repository.LiveStreamRepository) *LiveStreamService {
	return &LiveStreamService{streamRepo: streamRepo}
}

type CreateStreamInput struct {
	Actor        policy.Actor
	Title        string
	YoutubeURL   string
	ThumbnailURL string
	Description  string
}

type UpdateStreamInput struct {
	Actor        policy.Actor
	StreamID     uint
	Title        *string
	YoutubeURL   *string
	ThumbnailURL *string
	Description  *string
}

// CreateStream announces a new stream. The new stream becomes the active one
// and any previously active stream is ended.
func (s *LiveStreamService) CreateStream(ctx context.Context, input CreateStreamInput) (*models.LiveStream, error) {
	if err := policy.Authorize(input.Actor, policy.ActionManageLiveStream, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	youtubeURL := strings.TrimSpace(input.YoutubeURL)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if youtubeURL == "" {
		return nil, models.NewValidationError("YouTube URL is required")
	}
	if !youtubeURLPattern.MatchString(youtubeURL) {
		return nil, models.NewValidationError("YouTube URL must be a youtube.com or youtu.be link")
	}

	stream := &models.LiveStream{
		Title:        title,
		YoutubeURL:   youtubeURL,
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		Description:  strings.TrimSpace(input.Description),
		CreatedBy:    input.Actor.ID,
	}
	if err := s.streamRepo.CreateActive(ctx, stream); err != nil {
		return nil, models.NewInternalError(err)
	}
	return stream, nil
}

// UpdateStream edits an announcement's fields without touching its active flag.
func (s *LiveStreamService) UpdateStream(ctx context.Context, input UpdateStreamInput) (*models.LiveStream, error) {
	if err := policy.Authorize(input.Actor, policy.ActionManageLiveStream, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	stream, err := s.streamRepo.GetByID(ctx, input.StreamID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if stream == nil {
		return nil, models.NewNotFoundError("Live stream", input.StreamID)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		stream.Title = title
	}
	if input.YoutubeURL != nil {
		youtubeURL := strings.TrimSpace(*input.YoutubeURL)
		if !youtubeURLPattern.MatchString(youtubeURL) {
			return nil, models.NewValidationError("YouTube URL must be a youtube.com or youtu.be link")
		}
		stream.YoutubeURL = youtubeURL
	}
	if input.ThumbnailURL != nil {
		stream.ThumbnailURL = strings.TrimSpace(*input.ThumbnailURL)
	}
	if input.Description != nil {
		stream.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.streamRepo.Update(ctx, stream); err != nil {
		return nil, models.NewInternalError(err)
	}
	return stream, nil
}

// SetStreamActive turns an announcement on or off. Activation deactivates all
// other streams in the same transaction.
func (s *LiveStreamService) SetStreamActive(ctx context.Context, actor policy.Actor, id uint, active bool) (*models.LiveStream, error) {
	if err := policy.Authorize(actor, policy.ActionManageLiveStream, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	var stream *models.LiveStream
	var err error
	if active {
		stream, err = s.streamRepo.ActivateExclusive(ctx, id)
	} else {
		stream, err = s.streamRepo.Deactivate(ctx, id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if stream == nil {
		return nil, models.NewNotFoundError("Live stream", id)
	}
	return stream, nil
}

// DeleteStream removes an announcement.
func (s *LiveStreamService) DeleteStream(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Authorize(actor, policy.ActionManageLiveStream, policy.Resource{}).Err(); err != nil {
		return err
	}

	stream, err := s.streamRepo.GetByID(ctx, id)
	if err != nil {
		return models.NewInternalError(err)
	}
	if stream == nil {
		return models.NewNotFoundError("Live stream", id)
	}
	return s.streamRepo.Delete(ctx, id)
}

// CurrentStream returns the active announcement, or nil when the channel is
// offline. Offline is not an error.
func (s *LiveStreamService) CurrentStream(ctx context.Context) (*models.LiveStream, error) {
	stream, err := s.streamRepo.GetCurrent(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stream, nil
}

// ListStreams is the admin history view, newest first.
func (s *LiveStreamService) ListStreams(ctx context.Context, actor policy.Actor, limit, offset int) ([]*models.LiveStream, int64, error) {
	if err := policy.Authorize(actor, policy.ActionManageLiveStream, policy.Resource{}).Err(); err != nil {
		return nil, 0, err
	}
	return s.streamRepo.List(ctx, limit, offset)
}
