package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"gigpaisa/pkg/config"
)

// OCRService turns receipt images and PDFs into plain text. Images go through
// Tesseract; PDFs usually carry a text layer, so they are read directly with
// go-fitz. The Tesseract client is constructed once at startup and shared; it
// is not safe for concurrent use, hence the mutex.
type OCRService struct {
	mu      sync.Mutex
	client  *gosseract.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewOCRService(cfg *config.OCRConfig, logger *zap.Logger) (*OCRService, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(strings.Split(cfg.Languages, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR languages: %w", err)
	}

	return &OCRService{
		client:  client,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

var supportedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tiff": true,
}

// ExtractText extracts text from an image or PDF file, trimmed of surrounding
// whitespace. An empty result is reported as an error.
func (s *OCRService) ExtractText(ctx context.Context, filePath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ext := strings.ToLower(filepath.Ext(filePath))

	var text string
	var err error

	switch {
	case ext == ".pdf":
		text, err = s.extractTextFromPDF(filePath)
	case supportedImageExts[ext]:
		text, err = s.extractTextFromImage(ctx, filePath)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text recognized in %s", filepath.Base(filePath))
	}

	s.logger.Info("OCR extraction completed",
		zap.String("file", filepath.Base(filePath)),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

func (s *OCRService) extractTextFromImage(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	text, err := s.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

func (s *OCRService) extractTextFromPDF(pdfPath string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	return textBuilder.String(), nil
}

func (s *OCRService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Close()
}
