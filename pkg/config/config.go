package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	GigaChat GigaChatConfig
	OCR      OCRConfig
	Whisper  WhisperConfig
	Parser   ParserConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UploadDir    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

type OCRConfig struct {
	Languages string
	Timeout   time.Duration
}

// WhisperConfig points at a whisper.cpp-compatible speech-to-text server.
type WhisperConfig struct {
	URL     string
	Timeout time.Duration
}

type ParserConfig struct {
	// GenerationTimeout bounds a single text-generation call. A timeout is
	// treated like any other LLM failure and routed to the regex fallback.
	GenerationTimeout time.Duration
	MinTextLength     int
}

func Load() (*Config, error) {
	// .env is optional; environment variables win for Docker/K8s deployments.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "120"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	ocrTimeout, _ := strconv.Atoi(getEnv("OCR_TIMEOUT_SECONDS", "30"))
	whisperTimeout, _ := strconv.Atoi(getEnv("WHISPER_TIMEOUT_SECONDS", "30"))
	genTimeout, _ := strconv.Atoi(getEnv("PARSER_GENERATION_TIMEOUT_SECONDS", "90"))
	minTextLen, _ := strconv.Atoi(getEnv("PARSER_MIN_TEXT_LENGTH", "5"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "gigpaisa"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "change-me-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		OCR: OCRConfig{
			Languages: getEnv("OCR_LANGUAGES", "eng"),
			Timeout:   time.Duration(ocrTimeout) * time.Second,
		},
		Whisper: WhisperConfig{
			URL:     getEnv("WHISPER_URL", "http://localhost:9000"),
			Timeout: time.Duration(whisperTimeout) * time.Second,
		},
		Parser: ParserConfig{
			GenerationTimeout: time.Duration(genTimeout) * time.Second,
			MinTextLength:     minTextLen,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
