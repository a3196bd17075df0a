package utils

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv pulls in a local .env file when present. Missing files are
// fine; real env vars always win.
func LoadEnv() {
	_ = godotenv.Load()
}

// GetEnv returns the value of key, or def when unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type ServerConfig struct {
	Addr     string
	DataDir  string
	GinDebug bool
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		// loopback only: the embedded webview is the sole client
		Addr:     GetEnv("UPNEXT_ADDR", "127.0.0.1:5000"),
		DataDir:  GetEnv("UPNEXT_DATA_DIR", "data"),
		GinDebug: os.Getenv("UPNEXT_GIN_DEBUG") != "",
	}
}

type SessionConfig struct {
	Secret   string
	Issuer   string
	Duration time.Duration
}

// LoadSessionConfig builds the config for the loopback session token.
// The secret is generated per process start unless pinned via env,
// so tokens never outlive the running app.
func LoadSessionConfig() SessionConfig {
	secret := os.Getenv("UPNEXT_SESSION_SECRET")
	if secret == "" {
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		secret = hex.EncodeToString(buf)
	}

	return SessionConfig{
		Secret:   secret,
		Issuer:   GetEnv("UPNEXT_SESSION_ISSUER", "upnext"),
		Duration: 24 * time.Hour,
	}
}
