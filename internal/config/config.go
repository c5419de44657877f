package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the audio bucket.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SpeechConfig holds settings for the long-running speech recognition API.
type SpeechConfig struct {
	Endpoint            string
	APIKey              string
	LanguageCode        string
	AltLanguageCodes    []string
	SampleRateHertz     int
	SpeakerCount        int
	PollIntervalSec     int
	OperationTimeoutSec int
}

// GeminiConfig holds settings for the summary generation engine.
type GeminiConfig struct {
	APIKey            string
	Model             string
	RequestTimeoutSec int
}

// DriveConfig holds settings for the document share backend.
type DriveConfig struct {
	BaseURL     string
	UploadURL   string
	AccessToken string
	FolderID    string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Speech   SpeechConfig
	Gemini   GeminiConfig
	Drive    DriveConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "meeting-audio"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Speech: SpeechConfig{
			Endpoint:            getEnv("SPEECH_ENDPOINT", "https://speech.googleapis.com"),
			APIKey:              getEnv("SPEECH_API_KEY", ""),
			LanguageCode:        getEnv("SPEECH_LANGUAGE", "fil-PH"),
			AltLanguageCodes:    []string{getEnv("SPEECH_ALT_LANGUAGE", "en-US")},
			SampleRateHertz:     getEnvInt("SPEECH_SAMPLE_RATE", 16000),
			SpeakerCount:        getEnvInt("SPEECH_SPEAKER_COUNT", 2),
			PollIntervalSec:     getEnvInt("SPEECH_POLL_INTERVAL_SEC", 5),
			OperationTimeoutSec: getEnvInt("SPEECH_OPERATION_TIMEOUT_SEC", 600),
		},
		Gemini: GeminiConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			Model:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			RequestTimeoutSec: getEnvInt("GEMINI_REQUEST_TIMEOUT_SEC", 120),
		},
		Drive: DriveConfig{
			BaseURL:     getEnv("DRIVE_BASE_URL", "https://www.googleapis.com"),
			UploadURL:   getEnv("DRIVE_UPLOAD_URL", "https://www.googleapis.com/upload"),
			AccessToken: getEnv("DRIVE_ACCESS_TOKEN", ""),
			FolderID:    getEnv("DRIVE_FOLDER_ID", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
