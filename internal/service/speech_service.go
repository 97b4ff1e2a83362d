package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"gigpaisa/internal/audio"
)

// SpeechService transcribes voice notes through a whisper.cpp server.
// Uploaded audio is decoded, downmixed to mono and resampled to 16 kHz
// before being sent, since the server only accepts 16-bit mono WAV.
type SpeechService struct {
	serverURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSpeechService(serverURL string, timeout time.Duration, logger *zap.Logger) *SpeechService {
	return &SpeechService{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Transcribe converts an audio file to text. WAV, MP3 and FLAC inputs are
// supported; anything else is rejected before decoding.
func (s *SpeechService) Transcribe(ctx context.Context, filePath string) (string, error) {
	wavPath, err := s.prepareAudio(filePath)
	if err != nil {
		return "", err
	}
	defer os.Remove(wavPath)

	text, err := s.sendInference(ctx, wavPath)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no speech recognized in %s", filepath.Base(filePath))
	}

	s.logger.Info("Transcription completed",
		zap.String("file", filepath.Base(filePath)),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

// prepareAudio decodes the input and writes a mono 16 kHz WAV to a temp file.
// The caller removes the file when done.
func (s *SpeechService) prepareAudio(filePath string) (string, error) {
	samples, channels, sampleRate, err := audio.DecodeFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio: %w", err)
	}

	mono := audio.Downmix(samples, channels)
	mono = audio.Resample(mono, sampleRate, audio.TargetSampleRate)

	tmp, err := os.CreateTemp("", "gigpaisa-voice-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := audio.WriteWAV16(tmpPath, mono, audio.TargetSampleRate); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write WAV: %w", err)
	}

	return tmpPath, nil
}

func (s *SpeechService) sendInference(ctx context.Context, wavPath string) (string, error) {
	file, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("failed to open prepared audio: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serverURL+"/inference", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription server unavailable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse transcription response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("transcription failed: %s", parsed.Error)
	}

	return parsed.Text, nil
}
