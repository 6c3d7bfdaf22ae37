package config

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	DOWNLOAD_DIR=data/downloads
//	PCF_ENCODINGS=cp932,utf-8,shift_jis
//	CACHE_TTL=15m
type Config struct {
	Server   ServerConfig
	Paths    PathsConfig
	Parse    ParseConfig
	Download DownloadConfig
	Cache    CacheConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string
}

// PathsConfig locates inputs and outputs on disk. DownloadLog is resolved
// against DataDir when relative.
type PathsConfig struct {
	DataDir      string
	DownloadDir  string
	OutputDir    string
	DownloadLog  string
	SelfTestFile string
}

// ParseConfig tunes the parsing engine.
//
// Fields:
//   - Encodings: ordered priority list tried by the encoding resolver.
//   - Parallel: archives parsed concurrently (0 = auto).
type ParseConfig struct {
	Encodings []string
	Parallel  int
}

// DownloadConfig drives the daily archive downloader.
type DownloadConfig struct {
	Timeout      time.Duration
	LookbackDays int
	RatePerSec   float64
	Vendors      []string // empty = every vendor
	BusinessOnly bool     // skip days the Tokyo Stock Exchange is closed
}

// CacheConfig controls the API's per-date cache.
type CacheConfig struct {
	TTL time.Duration
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AppConfig is the globally accessible configuration instance, populated once
// by LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() terminates the app.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("DOWNLOAD_DIR", filepath.Join("data", "downloads"))
	viper.SetDefault("OUTPUT_DIR", "data")
	viper.SetDefault("DOWNLOAD_LOG", "download_log.csv")
	viper.SetDefault("SELFTEST_FILE", filepath.Join("data", "1306tsepcf_Dec042025.csv"))

	viper.SetDefault("PCF_ENCODINGS", "cp932,utf-8,shift_jis")
	viper.SetDefault("PCF_PARALLEL", 0)

	viper.SetDefault("DOWNLOAD_TIMEOUT", "10s")
	viper.SetDefault("DOWNLOAD_LOOKBACK_DAYS", 10)
	viper.SetDefault("DOWNLOAD_RATE", 2)
	viper.SetDefault("DOWNLOAD_VENDORS", "")
	viper.SetDefault("DOWNLOAD_BUSINESS_ONLY", true)

	viper.SetDefault("CACHE_TTL", "15m")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Paths: PathsConfig{
			DataDir:      viper.GetString("DATA_DIR"),
			DownloadDir:  viper.GetString("DOWNLOAD_DIR"),
			OutputDir:    viper.GetString("OUTPUT_DIR"),
			DownloadLog:  viper.GetString("DOWNLOAD_LOG"),
			SelfTestFile: viper.GetString("SELFTEST_FILE"),
		},
		Parse: ParseConfig{
			Encodings: splitList(viper.GetString("PCF_ENCODINGS")),
			Parallel:  viper.GetInt("PCF_PARALLEL"),
		},
		Download: DownloadConfig{
			Timeout:      viper.GetDuration("DOWNLOAD_TIMEOUT"),
			LookbackDays: viper.GetInt("DOWNLOAD_LOOKBACK_DAYS"),
			RatePerSec:   viper.GetFloat64("DOWNLOAD_RATE"),
			Vendors:      splitList(viper.GetString("DOWNLOAD_VENDORS")),
			BusinessOnly: viper.GetBool("DOWNLOAD_BUSINESS_ONLY"),
		},
		Cache: CacheConfig{
			TTL: viper.GetDuration("CACHE_TTL"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
	}

	if p := AppConfig.Paths.DownloadLog; p != "" && !filepath.IsAbs(p) {
		AppConfig.Paths.DownloadLog = filepath.Join(AppConfig.Paths.DataDir, p)
	}

	validateConfig()
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// missingFields lists the keys whose values are absent or unusable.
func missingFields(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Paths.DownloadDir == "" {
		missing = append(missing, "DOWNLOAD_DIR")
	}
	if cfg.Paths.OutputDir == "" {
		missing = append(missing, "OUTPUT_DIR")
	}
	if cfg.Paths.DownloadLog == "" {
		missing = append(missing, "DOWNLOAD_LOG")
	}
	if len(cfg.Parse.Encodings) == 0 {
		missing = append(missing, "PCF_ENCODINGS")
	}
	if cfg.Download.Timeout <= 0 {
		missing = append(missing, "DOWNLOAD_TIMEOUT")
	}
	if cfg.Download.LookbackDays < 0 {
		missing = append(missing, "DOWNLOAD_LOOKBACK_DAYS")
	}
	if cfg.Download.RatePerSec <= 0 {
		missing = append(missing, "DOWNLOAD_RATE")
	}
	if cfg.Cache.TTL <= 0 {
		missing = append(missing, "CACHE_TTL")
	}
	return missing
}

// validateConfig terminates the application listing every missing or
// invalid variable.
func validateConfig() {
	if missing := missingFields(AppConfig); len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}
