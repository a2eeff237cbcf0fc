package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"brrads/internal/config"
	"brrads/internal/database"
	"brrads/internal/models"
	"brrads/internal/repository"
	"brrads/internal/service"
	"brrads/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// newTestServer builds a Server against a throwaway sqlite database and mounts
// its routes on a bare Fiber app. Metrics middleware is left out so repeated
// setup across tests does not re-register Prometheus collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "brrads_api_test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:   "server-test-secret-0123456789-0123456789",
		JWTTTLHours: 24,
		UploadDir:   t.TempDir(),
		Env:         "test",
	}

	srv := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		requestRepo: repository.NewGameRequestRepository(db),
		fanArtRepo:  repository.NewFanArtRepository(db),
		streamRepo:  repository.NewLiveStreamRepository(db),
		settingRepo: repository.NewSiteSettingRepository(db),
	}

	files := storage.NewFileStore(cfg.UploadDir)
	jwtTTL := time.Duration(cfg.JWTTTLHours) * time.Hour
	srv.authService = service.NewAuthService(srv.userRepo, cfg.JWTSecret, jwtTTL)
	srv.userService = service.NewUserService(srv.userRepo)
	srv.requestService = service.NewGameRequestService(srv.requestRepo, files)
	srv.fanArtService = service.NewFanArtService(srv.fanArtRepo, files)
	srv.streamService = service.NewLiveStreamService(srv.streamRepo)
	srv.settingsService = service.NewSettingsService(srv.settingRepo)
	srv.statsService = service.NewStatsService(
		srv.requestRepo, srv.fanArtRepo, srv.userRepo, srv.streamRepo, nil)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

// seedUser inserts a user directly and returns a login token for them.
func seedUser(t *testing.T, srv *Server, app *fiber.App, username string, role models.Role) string {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, srv.db.Create(user).Error)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": username,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

// doJSON performs a JSON request against the app, optionally authenticated.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// doMultipart performs a multipart form request with optional file attachment.
func doMultipart(t *testing.T, app *fiber.App, path, token string, fields map[string]string, fileField, fileName string, fileData []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	return body.Code
}
