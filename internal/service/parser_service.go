package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"gigpaisa/internal/parse"
	"gigpaisa/pkg/config"
	"gigpaisa/pkg/metrics"
)

// ErrInsufficientText is returned when the extracted or transcribed text is
// too short to plausibly describe a transaction. No draft is produced.
var ErrInsufficientText = errors.New("insufficient text for parsing")

// TextExtractor pulls plain text out of a receipt image or PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// Transcriber converts a voice note into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// TextGenerator produces a completion for a prompt. Implemented by LLMService.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ParserService runs the full parse pipeline: modality-specific text
// extraction, LLM structuring, validation, and the deterministic regex
// fallback when the LLM path fails at any point.
type ParserService struct {
	ocr       TextExtractor
	speech    Transcriber
	generator TextGenerator
	cfg       *config.ParserConfig
	collector *metrics.Collector
	logger    *zap.Logger
	now       func() time.Time
}

func NewParserService(
	ocr TextExtractor,
	speech Transcriber,
	generator TextGenerator,
	cfg *config.ParserConfig,
	collector *metrics.Collector,
	logger *zap.Logger,
) *ParserService {
	return &ParserService{
		ocr:       ocr,
		speech:    speech,
		generator: generator,
		cfg:       cfg,
		collector: collector,
		logger:    logger,
		now:       time.Now,
	}
}

// ParseImage extracts text from a receipt image or PDF and parses it into a
// transaction draft.
func (s *ParserService) ParseImage(ctx context.Context, filePath string) (parse.Draft, error) {
	s.collector.ParseRequest("image")

	start := time.Now()
	text, err := s.ocr.ExtractText(ctx, filePath)
	s.collector.ObserveStage("ocr", time.Since(start))
	if err != nil {
		s.collector.ExtractionFailure("image")
		return parse.Draft{}, fmt.Errorf("text extraction failed: %w", err)
	}

	return s.parseText(ctx, text, "image")
}

// ParseVoice transcribes a voice note and parses it into a transaction draft.
func (s *ParserService) ParseVoice(ctx context.Context, filePath string) (parse.Draft, error) {
	s.collector.ParseRequest("voice")

	start := time.Now()
	text, err := s.speech.Transcribe(ctx, filePath)
	s.collector.ObserveStage("transcription", time.Since(start))
	if err != nil {
		s.collector.ExtractionFailure("voice")
		return parse.Draft{}, fmt.Errorf("transcription failed: %w", err)
	}

	return s.parseText(ctx, text, "voice")
}

// ParseText parses already-extracted text directly, bypassing OCR and speech.
func (s *ParserService) ParseText(ctx context.Context, text string) (parse.Draft, error) {
	s.collector.ParseRequest("text")
	return s.parseText(ctx, text, "text")
}

func (s *ParserService) parseText(ctx context.Context, text, modality string) (parse.Draft, error) {
	text = sanitizeUTF8(strings.TrimSpace(text))

	// Below the minimum length there is nothing to parse and nothing to fall
	// back to. This gate is a hard error, never a low-confidence draft.
	if utf8.RuneCountInString(text) < s.cfg.MinTextLength {
		s.collector.ExtractionFailure(modality)
		return parse.Draft{}, ErrInsufficientText
	}

	now := s.now()

	draft, err := s.parseWithLLM(ctx, text, now)
	if err == nil {
		return draft, nil
	}

	s.logger.Warn("LLM parse failed, falling back to regex extraction",
		zap.String("modality", modality),
		zap.Error(err),
	)
	s.collector.ParseFallback()

	start := time.Now()
	draft = parse.Extract(text, now)
	s.collector.ObserveStage("regex", time.Since(start))

	return draft, nil
}

func (s *ParserService) parseWithLLM(ctx context.Context, text string, now time.Time) (parse.Draft, error) {
	prompt := buildExtractionPrompt(text, now)

	start := time.Now()
	response, err := s.generator.Generate(ctx, prompt)
	s.collector.ObserveStage("generation", time.Since(start))
	if err != nil {
		return parse.Draft{}, fmt.Errorf("generation failed: %w", err)
	}

	raw, err := parse.ExtractJSONObject(response)
	if err != nil {
		return parse.Draft{}, fmt.Errorf("unparseable model response: %w", err)
	}

	return parse.Validate(raw, text, now), nil
}

// buildExtractionPrompt asks for a single flat JSON object with the exact
// field names the validator understands. The current date and time are
// embedded so relative phrases like "today" resolve consistently.
func buildExtractionPrompt(text string, now time.Time) string {
	var b strings.Builder
	b.WriteString("Extract transaction details from the following text and respond with a single JSON object only, no explanations.\n\n")
	b.WriteString("Fields:\n")
	b.WriteString("- amount: number, the transaction amount in rupees\n")
	b.WriteString("- transaction_type: \"income\" or \"expense\"\n")
	b.WriteString("- category: one of Food, Fuel, Rent, Groceries, Maintenance, Phone, EMI, Misc, Delivery, Freelance, Salary, Other\n")
	b.WriteString("- merchant_name: name of the merchant or payer, if mentioned\n")
	b.WriteString("- description: short summary of the transaction\n")
	b.WriteString("- payment_method: one of UPI, Cash, Card, Bank Transfer, if mentioned\n")
	b.WriteString("- location: place of the transaction, if mentioned\n")
	b.WriteString("- transaction_date: date in YYYY-MM-DD format\n")
	b.WriteString("- transaction_time: time in HH:MM 24-hour format\n\n")
	fmt.Fprintf(&b, "Today's date is %s and the current time is %s.\n", now.Format("2006-01-02"), now.Format("15:04"))
	b.WriteString("Omit any field that is not present in the text.\n\n")
	fmt.Fprintf(&b, "Text:\n%s", text)
	return b.String()
}
