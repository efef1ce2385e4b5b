package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// build is set at link time: -ldflags "-X github.com/trezcool/masomo-extractor/core.build=v1.2.3"
var build = "develop"

type (
	ServerConfig struct {
		Port            int
		DebugHost       string
		BodyLimit       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		JWTSecret       string // HS256 secret of the auth provider; empty disables the guard
		DisableReqLogs  bool
	}

	ExtractorConfig struct {
		FetchTimeout     time.Duration
		OCRThreshold     int
		MaxDownloadBytes int64 // 0 means unlimited
		UserAgent        string
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		RollbarToken string
		Server       ServerConfig
		Extractor    ExtractorConfig
	}
)

// Host is the listen address; it binds all interfaces.
func (sc ServerConfig) Host() string {
	return net.JoinHostPort("", strconv.Itoa(sc.Port))
}

// NewConfig loads the configuration of the current ENV (DEV by default) from
// the environment, after loading config/.env.<env> when present.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Masomo Extractor")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.bodyLimit", "50M")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.shutdownTimeout", 20*time.Second)
	v.SetDefault("server.jwtSecret", "")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("extractor.fetchTimeout", 20*time.Second)
	v.SetDefault("extractor.ocrThreshold", 10)
	v.SetDefault("extractor.maxDownloadBytes", int64(0))
	v.SetDefault("extractor.userAgent", "MasomoExtractor/"+build)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	// conventional unprefixed names used by hosting platforms
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("rollbarToken", "ROLLBAR_TOKEN")
	_ = v.BindEnv("server.jwtSecret", "JWT_SECRET")

	return &Config{
		Env:          env,
		Build:        build,
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			DebugHost:       v.GetString("server.debugHost"),
			BodyLimit:       v.GetString("server.bodyLimit"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			JWTSecret:       v.GetString("server.jwtSecret"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Extractor: ExtractorConfig{
			FetchTimeout:     v.GetDuration("extractor.fetchTimeout"),
			OCRThreshold:     v.GetInt("extractor.ocrThreshold"),
			MaxDownloadBytes: v.GetInt64("extractor.maxDownloadBytes"),
			UserAgent:        v.GetString("extractor.userAgent"),
		},
	}
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
