package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIBase            string
	PollIntervalMillis int
	MaxRetries         int
	UploadRetries      int
	HTTPTimeoutSecs    int
}

func Load() Config {
	return Config{
		APIBase:            getenv("PAPERTLDR_API_BASE", "http://127.0.0.1:8000"),
		PollIntervalMillis: getenvInt("PAPERTLDR_POLL_INTERVAL_MS", 3000),
		MaxRetries:         getenvInt("PAPERTLDR_MAX_RETRIES", 3),
		UploadRetries:      getenvInt("PAPERTLDR_UPLOAD_RETRIES", 2),
		HTTPTimeoutSecs:    getenvInt("PAPERTLDR_HTTP_TIMEOUT_SECONDS", 60),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
