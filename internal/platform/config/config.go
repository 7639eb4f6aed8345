package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config is the whole runtime configuration, read from the environment.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	SeedDemo bool   `env:"SEED_DEMO" env-default:"false"`

	HTTP   HTTP
	Log    Log
	Store  Store
	Video  Video
	Device Device
	Share  Share
}

type HTTP struct {
	Port            string        `env:"PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Store selects the artifact store backend: "memory" or "sqlite".
type Store struct {
	Driver string `env:"STORE_DRIVER" env-default:"memory"`
	Path   string `env:"STORE_PATH" env-default:"sitecam.db"`
}

type Video struct {
	BaseURL        string `env:"VIDEO_BASE_URL" env-default:"https://storage.example.com/sitecam"`
	PlaylistWindow int    `env:"PLAYLIST_WINDOW" env-default:"12"`
	MaxGapsPerDay  int    `env:"MOCK_MAX_GAPS" env-default:"6"`
}

type Device struct {
	ID   string `env:"DEVICE_ID" env-default:"cam-01"`
	Site string `env:"SITE_NAME" env-default:"North Tower"`
}

type Share struct {
	TTL time.Duration `env:"SHARE_TTL" env-default:"168h"`
}

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// Read parses the environment into a Config, applying defaults.
func Read() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.Read: %w", err)
	}
	if cfg.Video.PlaylistWindow <= 0 {
		cfg.Video.PlaylistWindow = 12
	}
	return &cfg, nil
}

// MustRead is Read for program start-up.
func MustRead() *Config {
	cfg, err := Read()
	if err != nil {
		panic("cannot read config: " + err.Error())
	}
	return cfg
}
