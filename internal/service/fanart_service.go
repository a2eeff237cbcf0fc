package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brrads/internal/middleware"
	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"
	"brrads/internal/storage"
)

const (
	// DailyFanArtLimit caps fan art submissions per user per calendar day.
	DailyFanArtLimit = 3

	maxTitleLen       = 255
	maxArtistNameLen  = 100
	maxDescriptionLen = 1000
)

var fanArtImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// FanArtService owns submission and moderation of fan art pieces.
type FanArtService struct {
	fanArtRepo repository.FanArtRepository
	files      FileStore
	now        func() time.Time
}

func NewFanArtService(fanArtRepo repository.FanArtRepository, files FileStore) *FanArtService {
	return &FanArtService{
		fanArtRepo: fanArtRepo,
		files:      files,
		now:        time.Now,
	}
}

// SubmitFanArtInput carries a new fan art piece through the submission guard.
// Unlike game requests, the image is mandatory.
type SubmitFanArtInput struct {
	Actor       policy.Actor
	Title       string
	ArtistName  string
	Description string
	ImageName   string
	ImageData   []byte
}

// TransitionFanArtInput moves a piece to a new moderation status.
type TransitionFanArtInput struct {
	Actor    policy.Actor
	FanArtID uint
	Status   models.FanArtStatus
}

// ListFanArtInput pages and filters fan art listings.
type ListFanArtInput struct {
	Actor    policy.Actor
	Search   string
	Statuses []models.FanArtStatus
	Limit    int
	Offset   int
}

// SubmitFanArt validates and rate-limits a new piece before persisting it
// with status pending. Fan art has no duplicate guard; two artists drawing
// the same subject is the point.
func (s *FanArtService) SubmitFanArt(ctx context.Context, input SubmitFanArtInput) (*models.FanArt, error) {
	if err := policy.Authorize(input.Actor, policy.ActionSubmitFanArt, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	artistName := strings.TrimSpace(input.ArtistName)

	if title == "" {
		return nil, rejectSubmission("fan_art", models.NewValidationError("Title is required"))
	}
	if artistName == "" {
		return nil, rejectSubmission("fan_art", models.NewValidationError("Artist name is required"))
	}
	title = truncate(title, maxTitleLen)
	artistName = truncate(artistName, maxArtistNameLen)

	if len(input.ImageData) == 0 {
		return nil, rejectSubmission("fan_art", models.NewValidationError("Image is required"))
	}
	if !storage.AllowedExtension(input.ImageName, fanArtImageExtensions...) {
		return nil, rejectSubmission("fan_art", models.NewValidationError("Image must be a jpg, jpeg, png, gif, or webp file"))
	}

	from, to := dayBounds(s.now())
	count, err := s.fanArtRepo.CountCreatedBetween(ctx, input.Actor.ID, from, to)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if count >= DailyFanArtLimit {
		return nil, rejectSubmission("fan_art", models.NewRateLimitedError(
			fmt.Sprintf("Daily limit of %d fan art submissions reached", DailyFanArtLimit)))
	}

	imagePath, err := s.files.Save("fanart", "art", input.ImageName, input.ImageData)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	art := &models.FanArt{
		Title:       title,
		ArtistName:  artistName,
		ImagePath:   imagePath,
		Description: truncate(strings.TrimSpace(input.Description), maxDescriptionLen),
		Status:      models.FanArtStatusPending,
		SubmittedBy: input.Actor.ID,
	}
	if err := s.fanArtRepo.Create(ctx, art); err != nil {
		return nil, models.NewInternalError(err)
	}

	return art, nil
}

// TransitionFanArt moves a piece between moderation statuses. Approval records
// who approved it and when; any other status clears both fields.
func (s *FanArtService) TransitionFanArt(ctx context.Context, input TransitionFanArtInput) (*models.FanArt, error) {
	if err := policy.Authorize(input.Actor, policy.ActionTransitionSubmission, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	if !models.ValidFanArtStatus(input.Status) || input.Status == models.FanArtStatusPending {
		return nil, models.NewValidationError("Invalid status")
	}

	art, err := s.fanArtRepo.GetByID(ctx, input.FanArtID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if art == nil {
		return nil, models.NewNotFoundError("Fan art", input.FanArtID)
	}

	art.Status = input.Status
	art.ApprovedBy = nil
	art.ApprovedByUser = nil
	art.ApprovedAt = nil

	if input.Status == models.FanArtStatusApproved {
		approverID := input.Actor.ID
		approvedAt := s.now()
		art.ApprovedBy = &approverID
		art.ApprovedAt = &approvedAt
	}

	if err := s.fanArtRepo.Update(ctx, art); err != nil {
		return nil, models.NewInternalError(err)
	}

	return art, nil
}

// DeleteFanArt removes a piece and best-effort deletes its stored image.
func (s *FanArtService) DeleteFanArt(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Authorize(actor, policy.ActionDeleteSubmission, policy.Resource{}).Err(); err != nil {
		return err
	}

	art, err := s.fanArtRepo.GetByID(ctx, id)
	if err != nil {
		return models.NewInternalError(err)
	}
	if art == nil {
		return models.NewNotFoundError("Fan art", id)
	}

	if err := s.fanArtRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}

	if art.ImagePath != "" {
		if err := s.files.Delete(art.ImagePath); err != nil {
			middleware.Logger.Warn("failed to delete fan art image",
				"fan_art_id", id, "path", art.ImagePath, "error", err)
		}
	}

	return nil
}

// ListGallery returns approved pieces for the public gallery, newest
// approvals first.
func (s *FanArtService) ListGallery(ctx context.Context, search string, limit, offset int) ([]*models.FanArt, int64, error) {
	return s.fanArtRepo.List(ctx, repository.ListFanArtQuery{
		Search:          search,
		Statuses:        []models.FanArtStatus{models.FanArtStatusApproved},
		OrderByApproved: true,
		Limit:           limit,
		Offset:          offset,
	})
}

// ListAllFanArt is the moderation view: every status, any search.
func (s *FanArtService) ListAllFanArt(ctx context.Context, input ListFanArtInput) ([]*models.FanArt, int64, error) {
	if err := policy.Authorize(input.Actor, policy.ActionReadAdminListings, policy.Resource{}).Err(); err != nil {
		return nil, 0, err
	}
	return s.fanArtRepo.List(ctx, repository.ListFanArtQuery{
		Search:   input.Search,
		Statuses: input.Statuses,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
}

// ListMyFanArt returns the actor's own pieces regardless of status.
func (s *FanArtService) ListMyFanArt(ctx context.Context, actor policy.Actor, limit, offset int) ([]*models.FanArt, int64, error) {
	if err := policy.Authorize(actor, policy.ActionReadOwnSubmissions, policy.Resource{OwnerID: actor.ID}).Err(); err != nil {
		return nil, 0, err
	}
	return s.fanArtRepo.List(ctx, repository.ListFanArtQuery{
		OwnerID: actor.ID,
		Limit:   limit,
		Offset:  offset,
	})
}

// GetFanArt fetches a single piece by ID.
func (s *FanArtService) GetFanArt(ctx context.Context, id uint) (*models.FanArt, error) {
	art, err := s.fanArtRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if art == nil {
		return nil, models.NewNotFoundError("Fan art", id)
	}
	return art, nil
}
