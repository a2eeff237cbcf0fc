package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"brrads/internal/models"
	"brrads/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Upload size caps, fan art pieces get more headroom than request covers.
const (
	maxRequestUploadBytes = 10 << 20
	maxFanArtUploadBytes  = 15 << 20
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// actor returns the policy.Actor stored by AuthRequired, or the anonymous
// actor when the route is unauthenticated.
func (s *Server) actor(c *fiber.Ctx) policy.Actor {
	if a, ok := c.Locals("actor").(policy.Actor); ok {
		return a
	}
	return policy.Actor{}
}

// readUpload loads an optional multipart image into memory. Returns empty
// values when no file was attached. On oversized or unreadable uploads it
// writes the error response and returns errResponseWritten.
func (s *Server) readUpload(c *fiber.Ctx, field string, maxBytes int64) (string, []byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		// No file attached.
		return "", nil, nil
	}
	if file.Size > maxBytes {
		_ = models.RespondWithError(c, models.NewValidationError(
			fmt.Sprintf("Image must be %dMB or smaller", maxBytes>>20)))
		return "", nil, errResponseWritten
	}

	data, err := readMultipartFile(file)
	if err != nil {
		_ = models.RespondWithError(c, models.NewInternalError(err))
		return "", nil, errResponseWritten
	}
	return file.Filename, data, nil
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// listResponse is the standard shape for paginated collections.
func listResponse(items any, total int64, p Pagination) fiber.Map {
	return fiber.Map{
		"items":  items,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	}
}
