package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"

	"github.com/stretchr/testify/require"
)

// gameRequestRepoStub is a stub for repository.GameRequestRepository.
type gameRequestRepoStub struct {
	createFn              func(context.Context, *models.GameRequest) error
	getByIDFn             func(context.Context, uint) (*models.GameRequest, error)
	listFn                func(context.Context, repository.ListRequestsQuery) ([]*models.GameRequest, int64, error)
	updateFn              func(context.Context, *models.GameRequest) error
	deleteFn              func(context.Context, uint) error
	countCreatedBetweenFn func(context.Context, uint, time.Time, time.Time) (int64, error)
	findByNameForUserFn   func(context.Context, string, uint) (*models.GameRequest, error)
	findByNameSinceFn     func(context.Context, string, time.Time) (*models.GameRequest, error)
	countByStatusFn       func(context.Context, models.RequestStatus) (int64, error)
	countCreatedSinceFn   func(context.Context, time.Time) (int64, error)
}

func (s *gameRequestRepoStub) Create(ctx context.Context, req *models.GameRequest) error {
	return s.createFn(ctx, req)
}
func (s *gameRequestRepoStub) GetByID(ctx context.Context, id uint) (*models.GameRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *gameRequestRepoStub) List(ctx context.Context, q repository.ListRequestsQuery) ([]*models.GameRequest, int64, error) {
	return s.listFn(ctx, q)
}
func (s *gameRequestRepoStub) Update(ctx context.Context, req *models.GameRequest) error {
	return s.updateFn(ctx, req)
}
func (s *gameRequestRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *gameRequestRepoStub) CountCreatedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return s.countCreatedBetweenFn(ctx, userID, from, to)
}
func (s *gameRequestRepoStub) FindByNameForUser(ctx context.Context, gameName string, userID uint) (*models.GameRequest, error) {
	return s.findByNameForUserFn(ctx, gameName, userID)
}
func (s *gameRequestRepoStub) FindByNameSince(ctx context.Context, gameName string, since time.Time) (*models.GameRequest, error) {
	return s.findByNameSinceFn(ctx, gameName, since)
}
func (s *gameRequestRepoStub) CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error) {
	return s.countByStatusFn(ctx, status)
}
func (s *gameRequestRepoStub) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countCreatedSinceFn(ctx, since)
}

func noopGameRequestRepo() *gameRequestRepoStub {
	return &gameRequestRepoStub{
		createFn:  func(_ context.Context, _ *models.GameRequest) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.GameRequest, error) { return nil, nil },
		listFn: func(_ context.Context, _ repository.ListRequestsQuery) ([]*models.GameRequest, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.GameRequest) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		countCreatedBetweenFn: func(_ context.Context, _ uint, _, _ time.Time) (int64, error) {
			return 0, nil
		},
		findByNameForUserFn: func(_ context.Context, _ string, _ uint) (*models.GameRequest, error) {
			return nil, nil
		},
		findByNameSinceFn: func(_ context.Context, _ string, _ time.Time) (*models.GameRequest, error) {
			return nil, nil
		},
		countByStatusFn:     func(_ context.Context, _ models.RequestStatus) (int64, error) { return 0, nil },
		countCreatedSinceFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// fanArtRepoStub is a stub for repository.FanArtRepository.
type fanArtRepoStub struct {
	createFn              func(context.Context, *models.FanArt) error
	getByIDFn             func(context.Context, uint) (*models.FanArt, error)
	listFn                func(context.Context, repository.ListFanArtQuery) ([]*models.FanArt, int64, error)
	updateFn              func(context.Context, *models.FanArt) error
	deleteFn              func(context.Context, uint) error
	countCreatedBetweenFn func(context.Context, uint, time.Time, time.Time) (int64, error)
	countByStatusFn       func(context.Context, models.FanArtStatus) (int64, error)
	countCreatedSinceFn   func(context.Context, time.Time) (int64, error)
}

func (s *fanArtRepoStub) Create(ctx context.Context, art *models.FanArt) error {
	return s.createFn(ctx, art)
}
func (s *fanArtRepoStub) GetByID(ctx context.Context, id uint) (*models.FanArt, error) {
	return s.getByIDFn(ctx, id)
}
func (s *fanArtRepoStub) List(ctx context.Context, q repository.ListFanArtQuery) ([]*models.FanArt, int64, error) {
	return s.listFn(ctx, q)
}
func (s *fanArtRepoStub) Update(ctx context.Context, art *models.FanArt) error {
	return s.updateFn(ctx, art)
}
func (s *fanArtRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *fanArtRepoStub) CountCreatedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return s.countCreatedBetweenFn(ctx, userID, from, to)
}
func (s *fanArtRepoStub) CountByStatus(ctx context.Context, status models.FanArtStatus) (int64, error) {
	return s.countByStatusFn(ctx, status)
}
func (s *fanArtRepoStub) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countCreatedSinceFn(ctx, since)
}

func noopFanArtRepo() *fanArtRepoStub {
	return &fanArtRepoStub{
		createFn:  func(_ context.Context, _ *models.FanArt) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.FanArt, error) { return nil, nil },
		listFn: func(_ context.Context, _ repository.ListFanArtQuery) ([]*models.FanArt, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.FanArt) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		countCreatedBetweenFn: func(_ context.Context, _ uint, _, _ time.Time) (int64, error) {
			return 0, nil
		},
		countByStatusFn:     func(_ context.Context, _ models.FanArtStatus) (int64, error) { return 0, nil },
		countCreatedSinceFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	listFn           func(context.Context, string, models.Role, int, int) ([]models.User, int64, error)
	updateFn         func(context.Context, *models.User) error
	deleteFn         func(context.Context, uint) error
	touchLastLoginFn func(context.Context, uint) error
	countAllFn       func(context.Context) (int64, error)
	countByRoleFn    func(context.Context, models.Role) (int64, error)
	countActiveFn    func(context.Context) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) List(ctx context.Context, search string, role models.Role, limit, offset int) ([]models.User, int64, error) {
	return s.listFn(ctx, search, role, limit, offset)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) TouchLastLogin(ctx context.Context, id uint) error {
	return s.touchLastLoginFn(ctx, id)
}
func (s *userRepoStub) CountAll(ctx context.Context) (int64, error) {
	return s.countAllFn(ctx)
}
func (s *userRepoStub) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return s.countByRoleFn(ctx, role)
}
func (s *userRepoStub) CountActive(ctx context.Context) (int64, error) {
	return s.countActiveFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn: func(_ context.Context, _ string, _ models.Role, _, _ int) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		updateFn:         func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		touchLastLoginFn: func(_ context.Context, _ uint) error { return nil },
		countAllFn:       func(_ context.Context) (int64, error) { return 0, nil },
		countByRoleFn:    func(_ context.Context, _ models.Role) (int64, error) { return 0, nil },
		countActiveFn:    func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// liveStreamRepoStub is a stub for repository.LiveStreamRepository.
type liveStreamRepoStub struct {
	createActiveFn      func(context.Context, *models.LiveStream) error
	getByIDFn           func(context.Context, uint) (*models.LiveStream, error)
	getCurrentFn        func(context.Context) (*models.LiveStream, error)
	listFn              func(context.Context, int, int) ([]*models.LiveStream, int64, error)
	updateFn            func(context.Context, *models.LiveStream) error
	deleteFn            func(context.Context, uint) error
	activateExclusiveFn func(context.Context, uint) (*models.LiveStream, error)
	deactivateFn        func(context.Context, uint) (*models.LiveStream, error)
	countAllFn          func(context.Context) (int64, error)
	countActiveFn       func(context.Context) (int64, error)
	countCreatedSinceFn func(context.Context, time.Time) (int64, error)
}

func (s *liveStreamRepoStub) CreateActive(ctx context.Context, stream *models.LiveStream) error {
	return s.createActiveFn(ctx, stream)
}
func (s *liveStreamRepoStub) GetByID(ctx context.Context, id uint) (*models.LiveStream, error) {
	return s.getByIDFn(ctx, id)
}
func (s *liveStreamRepoStub) GetCurrent(ctx context.Context) (*models.LiveStream, error) {
	return s.getCurrentFn(ctx)
}
func (s *liveStreamRepoStub) List(ctx context.Context, limit, offset int) ([]*models.LiveStream, int64, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *liveStreamRepoStub) Update(ctx context.Context, stream *models.LiveStream) error {
	return s.updateFn(ctx, stream)
}
func (s *liveStreamRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *liveStreamRepoStub) ActivateExclusive(ctx context.Context, id uint) (*models.LiveStream, error) {
	return s.activateExclusiveFn(ctx, id)
}
func (s *liveStreamRepoStub) Deactivate(ctx context.Context, id uint) (*models.LiveStream, error) {
	return s.deactivateFn(ctx, id)
}
func (s *liveStreamRepoStub) CountAll(ctx context.Context) (int64, error) {
	return s.countAllFn(ctx)
}
func (s *liveStreamRepoStub) CountActive(ctx context.Context) (int64, error) {
	return s.countActiveFn(ctx)
}
func (s *liveStreamRepoStub) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countCreatedSinceFn(ctx, since)
}

func noopLiveStreamRepo() *liveStreamRepoStub {
	return &liveStreamRepoStub{
		createActiveFn: func(_ context.Context, _ *models.LiveStream) error { return nil },
		getByIDFn:      func(_ context.Context, _ uint) (*models.LiveStream, error) { return nil, nil },
		getCurrentFn:   func(_ context.Context) (*models.LiveStream, error) { return nil, nil },
		listFn: func(_ context.Context, _, _ int) ([]*models.LiveStream, int64, error) {
			return nil, 0, nil
		},
		updateFn:            func(_ context.Context, _ *models.LiveStream) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
		activateExclusiveFn: func(_ context.Context, _ uint) (*models.LiveStream, error) { return nil, nil },
		deactivateFn:        func(_ context.Context, _ uint) (*models.LiveStream, error) { return nil, nil },
		countAllFn:          func(_ context.Context) (int64, error) { return 0, nil },
		countActiveFn:       func(_ context.Context) (int64, error) { return 0, nil },
		countCreatedSinceFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// siteSettingRepoStub is a stub for repository.SiteSettingRepository.
type siteSettingRepoStub struct {
	getFn func(context.Context, string) (*models.SiteSetting, error)
	setFn func(context.Context, string, string) (*models.SiteSetting, error)
	allFn func(context.Context) ([]models.SiteSetting, error)
}

func (s *siteSettingRepoStub) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	return s.getFn(ctx, key)
}
func (s *siteSettingRepoStub) Set(ctx context.Context, key, value string) (*models.SiteSetting, error) {
	return s.setFn(ctx, key, value)
}
func (s *siteSettingRepoStub) All(ctx context.Context) ([]models.SiteSetting, error) {
	return s.allFn(ctx)
}

func noopSiteSettingRepo() *siteSettingRepoStub {
	return &siteSettingRepoStub{
		getFn: func(_ context.Context, _ string) (*models.SiteSetting, error) { return nil, nil },
		setFn: func(_ context.Context, key, value string) (*models.SiteSetting, error) {
			return &models.SiteSetting{Key: key, Value: value}, nil
		},
		allFn: func(_ context.Context) ([]models.SiteSetting, error) { return nil, nil },
	}
}

// fileStoreStub records saves and deletes without touching the filesystem.
type fileStoreStub struct {
	saved   []string
	deleted []string
	saveErr error
}

func (s *fileStoreStub) Save(category, prefix, originalName string, _ []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	path := "/uploads/" + category + "/" + prefix + "-" + originalName
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *fileStoreStub) Delete(refPath string) error {
	s.deleted = append(s.deleted, refPath)
	return nil
}

// Common actors used across service tests.
func memberActor(id uint) policy.Actor {
	return policy.Actor{ID: id, Role: models.RoleMember, IsActive: true}
}

func moderatorActor(id uint) policy.Actor {
	return policy.Actor{ID: id, Role: models.RoleModerator, IsActive: true}
}

func adminActor(id uint) policy.Actor {
	return policy.Actor{ID: id, Role: models.RoleAdmin, IsActive: true}
}

// requireAppCode asserts that err is an AppError carrying the given code.
func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}
