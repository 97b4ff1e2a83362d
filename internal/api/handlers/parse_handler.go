package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigpaisa/internal/dto"
	"gigpaisa/internal/parse"
	"gigpaisa/internal/service"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tiff": true, ".pdf": true,
}

var audioExts = map[string]bool{
	".wav": true, ".mp3": true, ".flac": true,
}

type ParseHandler struct {
	parser    *service.ParserService
	uploadDir string
	logger    *zap.Logger
}

func NewParseHandler(parser *service.ParserService, uploadDir string, logger *zap.Logger) *ParseHandler {
	return &ParseHandler{
		parser:    parser,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// ParseImage accepts a receipt image or PDF upload and returns a transaction
// draft. The draft is not persisted; the client confirms it separately.
func (h *ParseHandler) ParseImage(c *fiber.Ctx) error {
	return h.parseUpload(c, imageExts, h.parser.ParseImage)
}

// ParseVoice accepts a voice note upload and returns a transaction draft.
func (h *ParseHandler) ParseVoice(c *fiber.Ctx) error {
	return h.parseUpload(c, audioExts, h.parser.ParseVoice)
}

func (h *ParseHandler) parseUpload(
	c *fiber.Ctx,
	allowedExts map[string]bool,
	parseFn func(ctx context.Context, filePath string) (parse.Draft, error),
) error {
	if _, err := getUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExts[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file format: " + ext,
		})
	}

	// Saved under a random name so upload filenames never reach the filesystem.
	tmpPath := filepath.Join(h.uploadDir, uuid.New().String()+ext)
	if err := c.SaveFile(file, tmpPath); err != nil {
		h.logger.Error("Failed to save upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save upload",
		})
	}
	defer os.Remove(tmpPath)

	draft, err := parseFn(c.Context(), tmpPath)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientText) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ParseErrorResponse{
				Error:      "Insufficient text extracted from file",
				Confidence: 0.0,
			})
		}
		h.logger.Warn("Parse failed", zap.String("file", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ParseErrorResponse{
			Error:      "Could not extract a transaction from file",
			Confidence: 0.0,
		})
	}

	return c.JSON(draft)
}
