package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all client-side settings. It is loaded once at startup and
// passed down to the components that need it.
type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	RollbarToken string

	API struct {
		BaseURL string
		// Timeout is the fixed per-call budget for one gateway request.
		// Exceeding it surfaces as a network error to the caller.
		Timeout time.Duration
	}

	Session struct {
		// StorePath is the SQLite file backing the persistent session store.
		StorePath string
	}
}

// NewConfig loads the configuration from defaults, an optional .env file and
// the environment. ENV selects the deployment environment (DEV by default).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "PCAS Connect")
	conf.SetDefault("build", "develop")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("apiBaseUrl", "http://localhost:8000")
	conf.SetDefault("apiTimeout", 10*time.Second)
	conf.SetDefault("sessionStorePath", defaultStorePath())

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	testMode := false
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	cfg := &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     testMode,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
	}
	cfg.API.BaseURL = conf.GetString("apiBaseUrl")
	cfg.API.Timeout = conf.GetDuration("apiTimeout")
	cfg.Session.StorePath = conf.GetString("sessionStorePath")
	return cfg
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "pcasconnect", "session.db")
}
