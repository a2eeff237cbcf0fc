// Package service contains the application's business logic. Services sit
// between the HTTP handlers and the repositories: handlers parse and respond,
// repositories persist, and everything in between lives here.
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"brrads/internal/middleware"
	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"
	"brrads/internal/storage"
)

const (
	// DailyRequestLimit caps game requests per user per calendar day.
	DailyRequestLimit = 5
	// RecentDuplicateWindow is how long a game name is considered "just
	// requested" across all users.
	RecentDuplicateWindow = 60 * time.Minute

	maxGameNameLen      = 255
	maxRequesterNameLen = 100
	maxGameLinkLen      = 500
)

// requestImageExtensions are the upload types accepted for game request images.
var requestImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// FileStore abstracts uploaded file persistence so services can be tested
// without touching the filesystem.
type FileStore interface {
	Save(category, prefix, originalName string, content []byte) (string, error)
	Delete(refPath string) error
}

// GameRequestService owns the submission guard and moderation state machine
// for game requests.
type GameRequestService struct {
	requestRepo repository.GameRequestRepository
	files       FileStore
	now         func() time.Time
}

func NewGameRequestService(requestRepo repository.GameRequestRepository, files FileStore) *GameRequestService {
	return &GameRequestService{
		requestRepo: requestRepo,
		files:       files,
		now:         time.Now,
	}
}

// SubmitRequestInput carries a new game request through the submission guard.
// ImageName/ImageData are optional; when present the image is stored and its
// public path recorded on the request.
type SubmitRequestInput struct {
	Actor         policy.Actor
	GameName      string
	GameLink      string
	RequesterName string
	ImageName     string
	ImageData     []byte
}

// TransitionRequestInput moves a request to a new moderation status.
type TransitionRequestInput struct {
	Actor           policy.Actor
	RequestID       uint
	Status          models.RequestStatus
	RejectionReason string
	DuplicateOf     *uint
}

// ListRequestsInput pages and filters request listings.
type ListRequestsInput struct {
	Actor    policy.Actor
	Search   string
	Statuses []models.RequestStatus
	Limit    int
	Offset   int
}

func rejectSubmission(kind string, err *models.AppError) error {
	middleware.SubmissionsRejected.WithLabelValues(kind, err.Code).Inc()
	return err
}

// truncate caps s at max characters without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// SubmitRequest validates, rate-limits, and duplicate-checks a new game
// request before persisting it with status pending.
func (s *GameRequestService) SubmitRequest(ctx context.Context, input SubmitRequestInput) (*models.GameRequest, error) {
	if err := policy.Authorize(input.Actor, policy.ActionSubmitRequest, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	gameName := strings.TrimSpace(input.GameName)
	requesterName := strings.TrimSpace(input.RequesterName)
	gameLink := strings.TrimSpace(input.GameLink)

	if gameName == "" {
		return nil, rejectSubmission("game_request", models.NewValidationError("Game name is required"))
	}
	if requesterName == "" {
		return nil, rejectSubmission("game_request", models.NewValidationError("Requester name is required"))
	}
	gameName = truncate(gameName, maxGameNameLen)
	requesterName = truncate(requesterName, maxRequesterNameLen)
	if gameLink != "" {
		gameLink = truncate(gameLink, maxGameLinkLen)
		parsed, err := url.Parse(gameLink)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return nil, rejectSubmission("game_request", models.NewValidationError("Game link must be a valid URL"))
		}
	}

	// Rate limit: at most DailyRequestLimit requests per local calendar day.
	from, to := dayBounds(s.now())
	count, err := s.requestRepo.CountCreatedBetween(ctx, input.Actor.ID, from, to)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if count >= DailyRequestLimit {
		return nil, rejectSubmission("game_request", models.NewRateLimitedError(
			fmt.Sprintf("Daily limit of %d game requests reached", DailyRequestLimit)))
	}

	// Duplicate guard: same user may never request the same game twice, and
	// any user repeating a game within the recent window is turned away.
	existing, err := s.requestRepo.FindByNameForUser(ctx, gameName, input.Actor.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, rejectSubmission("game_request", models.NewDuplicateLocalError("You have already requested this game"))
	}
	recent, err := s.requestRepo.FindByNameSince(ctx, gameName, s.now().Add(-RecentDuplicateWindow))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if recent != nil {
		return nil, rejectSubmission("game_request", models.NewDuplicateRecentError("This game was requested recently by another user"))
	}

	var imagePath string
	if len(input.ImageData) > 0 {
		if !storage.AllowedExtension(input.ImageName, requestImageExtensions...) {
			return nil, rejectSubmission("game_request", models.NewValidationError("Image must be a jpg, jpeg, png, or gif file"))
		}
		imagePath, err = s.files.Save("game-requests", "game", input.ImageName, input.ImageData)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	request := &models.GameRequest{
		GameName:      gameName,
		GameLink:      gameLink,
		RequesterName: requesterName,
		ImagePath:     imagePath,
		Status:        models.RequestStatusPending,
		RequestedBy:   input.Actor.ID,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, models.NewInternalError(err)
	}

	return request, nil
}

// TransitionRequest applies the moderation state machine. The target status
// decides which auxiliary fields are required, set, and cleared:
// rejected keeps a reason, duplicate points at an existing request, played
// stamps the time. Fields belonging to other statuses are always cleared.
func (s *GameRequestService) TransitionRequest(ctx context.Context, input TransitionRequestInput) (*models.GameRequest, error) {
	if err := policy.Authorize(input.Actor, policy.ActionTransitionSubmission, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	if !models.ValidRequestStatus(input.Status) || input.Status == models.RequestStatusPending {
		return nil, models.NewValidationError("Invalid status")
	}

	request, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if request == nil {
		return nil, models.NewNotFoundError("Game request", input.RequestID)
	}

	request.Status = input.Status
	request.RejectionReason = ""
	request.DuplicateOf = nil
	request.DuplicateOfReq = nil
	request.PlayedAt = nil

	switch input.Status {
	case models.RequestStatusRejected:
		reason := strings.TrimSpace(input.RejectionReason)
		if reason == "" {
			return nil, models.NewValidationError("Rejection reason is required")
		}
		request.RejectionReason = reason

	case models.RequestStatusDuplicate:
		if input.DuplicateOf == nil {
			return nil, models.NewValidationError("Duplicate reference is required")
		}
		if *input.DuplicateOf == request.ID {
			return nil, models.NewValidationError("A request cannot duplicate itself")
		}
		original, err := s.requestRepo.GetByID(ctx, *input.DuplicateOf)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if original == nil {
			return nil, models.NewValidationError("Duplicate reference does not exist")
		}
		request.DuplicateOf = input.DuplicateOf

	case models.RequestStatusPlayed:
		playedAt := s.now()
		request.PlayedAt = &playedAt
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, models.NewInternalError(err)
	}

	return request, nil
}

// DeleteRequest removes a request and best-effort deletes its stored image.
func (s *GameRequestService) DeleteRequest(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Authorize(actor, policy.ActionDeleteSubmission, policy.Resource{}).Err(); err != nil {
		return err
	}

	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return models.NewInternalError(err)
	}
	if request == nil {
		return models.NewNotFoundError("Game request", id)
	}

	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}

	if request.ImagePath != "" {
		if err := s.files.Delete(request.ImagePath); err != nil {
			middleware.Logger.Warn("failed to delete request image",
				"request_id", id, "path", request.ImagePath, "error", err)
		}
	}

	return nil
}

// ListPublicRequests returns requests visible to everyone, so only statuses
// the community can see.
func (s *GameRequestService) ListPublicRequests(ctx context.Context, search string, limit, offset int) ([]*models.GameRequest, int64, error) {
	return s.requestRepo.List(ctx, repository.ListRequestsQuery{
		Search: search,
		Statuses: []models.RequestStatus{
			models.RequestStatusApproved,
			models.RequestStatusPlayed,
		},
		Limit:  limit,
		Offset: offset,
	})
}

// ListAllRequests is the moderation view: every status, any search.
func (s *GameRequestService) ListAllRequests(ctx context.Context, input ListRequestsInput) ([]*models.GameRequest, int64, error) {
	if err := policy.Authorize(input.Actor, policy.ActionReadAdminListings, policy.Resource{}).Err(); err != nil {
		return nil, 0, err
	}
	return s.requestRepo.List(ctx, repository.ListRequestsQuery{
		Search:   input.Search,
		Statuses: input.Statuses,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
}

// ListMyRequests returns the actor's own submissions regardless of status.
func (s *GameRequestService) ListMyRequests(ctx context.Context, actor policy.Actor, limit, offset int) ([]*models.GameRequest, int64, error) {
	if err := policy.Authorize(actor, policy.ActionReadOwnSubmissions, policy.Resource{OwnerID: actor.ID}).Err(); err != nil {
		return nil, 0, err
	}
	return s.requestRepo.List(ctx, repository.ListRequestsQuery{
		OwnerID: actor.ID,
		Limit:   limit,
		Offset:  offset,
	})
}

// GetRequest fetches a single request by ID.
func (s *GameRequestService) GetRequest(ctx context.Context, id uint) (*models.GameRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if request == nil {
		return nil, models.NewNotFoundError("Game request", id)
	}
	return request, nil
}

// dayBounds returns the local-midnight boundaries of the day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	from := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}
