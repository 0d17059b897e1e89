package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataDir string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MirrorEnabled    bool

	APIPort         int
	EndpointKeyFile string

	ScrapeDelay     time.Duration
	RestartCooldown time.Duration

	CacheCapacity    int
	PageRecycleAfter int
	MaxConsecutive   int
	CacheSaveEvery   int

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataDir: getEnv("DATA_DIR", "data"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "college_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MirrorEnabled:    getEnvBool("PG_MIRROR", false),

		APIPort:         getEnvInt("API_PORT", 5000),
		EndpointKeyFile: getEnv("ENDPOINT_KEY_FILE", "endpointkey.txt"),

		ScrapeDelay:     time.Duration(getEnvInt("SCRAPE_DELAY_SEC", 15)) * time.Second,
		RestartCooldown: time.Duration(getEnvInt("RESTART_COOLDOWN_SEC", 60)) * time.Second,

		CacheCapacity:    getEnvInt("SLUG_CACHE_CAPACITY", 5000),
		PageRecycleAfter: getEnvInt("PAGE_RECYCLE_AFTER", 50),
		MaxConsecutive:   getEnvInt("MAX_CONSECUTIVE_ERRORS", 10),
		CacheSaveEvery:   getEnvInt("CACHE_SAVE_EVERY", 20),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// DatasetPath is the scraped dataset CSV.
func (c *Config) DatasetPath() string { return filepath.Join(c.DataDir, "scanned.csv") }

// InputPath is the institution list the scrape loop cycles through.
func (c *Config) InputPath() string { return filepath.Join(c.DataDir, "university_data.csv") }

// CheckpointPath is the saved loop offset.
func (c *Config) CheckpointPath() string { return filepath.Join(c.DataDir, "scraper_progress.json") }

// SlugCachePath is the persisted name-to-URL cache.
func (c *Config) SlugCachePath() string { return filepath.Join(c.DataDir, "slug_cache.json") }

// MissLogPath records names that never resolved to a page.
func (c *Config) MissLogPath() string { return filepath.Join(c.DataDir, "slug_misses.log") }

// LogPath is the service log file.
func (c *Config) LogPath() string { return filepath.Join(c.DataDir, "scraper.log") }

// DSN returns the PostgreSQL connection string for the mirror store.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
