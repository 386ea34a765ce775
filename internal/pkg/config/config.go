package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Transcode TranscodeConfig
	Stream    StreamConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type UploadConfig struct {
	TempDir     string
	MediaDir    string // root for sources, thumbnails and HLS derivatives
	MaxFileSize int64  // bytes
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

type TranscodeConfig struct {
	FFmpegPath      string
	FFprobePath     string
	SegmentSeconds  int     // HLS segment duration
	ThumbnailOffset float64 // fraction of duration, 0..1
	ThumbnailWidth  int     // poster is downscaled to this width
	Workers         int
}

type StreamConfig struct {
	MaxChunkSize    int64  // cap per range response, bytes
	PlaceholderPath string // served when a thumbnail is absent
}

type AuthConfig struct {
	JWTSecret     string
	FallbackOwner string // owner assigned by the admin repair operation
}

func LoadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3000"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Upload: UploadConfig{
			TempDir:     getEnv("UPLOAD_TEMP_DIR", "temp_uploads"),
			MediaDir:    getEnv("MEDIA_DIR", "media"),
			MaxFileSize: getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 2*1024*1024*1024), // 2GB
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "video_service"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		Transcode: TranscodeConfig{
			FFmpegPath:      getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath:     getEnv("FFPROBE_PATH", "ffprobe"),
			SegmentSeconds:  getEnvAsInt("HLS_SEGMENT_SECONDS", 10),
			ThumbnailOffset: getEnvAsFloat("THUMBNAIL_OFFSET", 0.5),
			ThumbnailWidth:  getEnvAsInt("THUMBNAIL_WIDTH", 640),
			Workers:         getEnvAsInt("TRANSCODE_WORKERS", 2),
		},
		Stream: StreamConfig{
			MaxChunkSize:    getEnvAsInt64("STREAM_MAX_CHUNK", 1024*1024), // 1 MiB
			PlaceholderPath: getEnv("THUMBNAIL_PLACEHOLDER", "assets/placeholder.png"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			FallbackOwner: getEnv("FALLBACK_OWNER", "system"),
		},
	}

	return config
}

// EnsureDirs creates the working directories up front so the first upload
// does not race directory creation.
func (c *Config) EnsureDirs() error {
	if err := ensureDir(c.Upload.TempDir); err != nil {
		return err
	}
	return ensureDir(c.Upload.MediaDir)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
