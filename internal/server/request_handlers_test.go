package server

import (
	"fmt"
	"net/http"
	"testing"

	"brrads/internal/models"
	"brrads/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitRequest(t *testing.T, app *fiber.App, token, gameName string) *http.Response {
	t.Helper()
	return doMultipart(t, app, "/api/requests", token, map[string]string{
		"game_name":      gameName,
		"requester_name": "viewer",
	}, "", "", nil)
}

func TestCreateGameRequest_FullFlow(t *testing.T) {
	srv, app := newTestServer(t)
	token := seedUser(t, srv, app, "requester", models.RoleMember)

	resp := doMultipart(t, app, "/api/requests", token, map[string]string{
		"game_name":      "Hollow Knight",
		"game_link":      "https://store.steampowered.com/app/367520",
		"requester_name": "brrad_fan",
	}, "image", "cover.png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var request models.GameRequest
	decodeBody(t, resp, &request)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.NotEmpty(t, request.ImagePath)

	// The new request shows up in the owner's listing.
	resp = doJSON(t, app, http.MethodGet, "/api/requests/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Items []models.GameRequest `json:"items"`
		Total int64                `json:"total"`
	}
	decodeBody(t, resp, &listing)
	assert.Equal(t, int64(1), listing.Total)
}

func TestCreateGameRequest_RequiresAuth(t *testing.T) {
	_, app := newTestServer(t)

	resp := submitRequest(t, app, "", "Hollow Knight")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateGameRequest_DailyLimit(t *testing.T) {
	srv, app := newTestServer(t)
	token := seedUser(t, srv, app, "eager_viewer", models.RoleMember)

	for i := 0; i < service.DailyRequestLimit; i++ {
		resp := submitRequest(t, app, token, fmt.Sprintf("Game %d", i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := submitRequest(t, app, token, "One Too Many")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, models.CodeRateLimited, errorCode(t, resp))
}

func TestCreateGameRequest_DuplicateDetection(t *testing.T) {
	srv, app := newTestServer(t)
	tokenA := seedUser(t, srv, app, "viewer_a", models.RoleMember)
	tokenB := seedUser(t, srv, app, "viewer_b", models.RoleMember)

	resp := submitRequest(t, app, tokenA, "Celeste")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same user, same game (different casing) is a local duplicate.
	resp = submitRequest(t, app, tokenA, "CELESTE")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeDuplicateLocal, errorCode(t, resp))

	// A different user hitting the same game within the hour is a recent
	// duplicate.
	resp = submitRequest(t, app, tokenB, "celeste")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeDuplicateRecent, errorCode(t, resp))
}

func TestUpdateGameRequestStatus_Moderation(t *testing.T) {
	srv, app := newTestServer(t)
	memberToken := seedUser(t, srv, app, "plain_member", models.RoleMember)
	modToken := seedUser(t, srv, app, "the_mod", models.RoleModerator)

	resp := submitRequest(t, app, memberToken, "Hades")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var request models.GameRequest
	decodeBody(t, resp, &request)

	path := fmt.Sprintf("/api/admin/requests/%d/status", request.ID)

	// Members cannot moderate, not even their own request.
	resp = doJSON(t, app, http.MethodPut, path, memberToken, fiber.Map{"status": "approved"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Rejection without a reason is invalid.
	resp = doJSON(t, app, http.MethodPut, path, modToken, fiber.Map{"status": "rejected"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Reject with a reason, then approve; the reason must be gone after.
	resp = doJSON(t, app, http.MethodPut, path, modToken, fiber.Map{
		"status":           "rejected",
		"rejection_reason": "Too spicy for the channel",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rejected models.GameRequest
	decodeBody(t, resp, &rejected)
	assert.Equal(t, "Too spicy for the channel", rejected.RejectionReason)

	resp = doJSON(t, app, http.MethodPut, path, modToken, fiber.Map{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approved models.GameRequest
	decodeBody(t, resp, &approved)
	assert.Equal(t, models.RequestStatusApproved, approved.Status)
	assert.Empty(t, approved.RejectionReason)

	// Played stamps the time.
	resp = doJSON(t, app, http.MethodPut, path, modToken, fiber.Map{"status": "played"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var played models.GameRequest
	decodeBody(t, resp, &played)
	require.NotNil(t, played.PlayedAt)
}

func TestDeleteGameRequest_AdminOnly(t *testing.T) {
	srv, app := newTestServer(t)
	memberToken := seedUser(t, srv, app, "plain_member", models.RoleMember)
	modToken := seedUser(t, srv, app, "the_mod", models.RoleModerator)
	adminToken := seedUser(t, srv, app, "the_admin", models.RoleAdmin)

	resp := submitRequest(t, app, memberToken, "Hades")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var request models.GameRequest
	decodeBody(t, resp, &request)

	path := fmt.Sprintf("/api/admin/requests/%d", request.ID)

	resp = doJSON(t, app, http.MethodDelete, path, modToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/requests/%d", request.ID), memberToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
