package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageSQLite = "sqlite"
	StorageBadger = "badger"
)

type Config struct {
	DBPath     string `json:"db_path" env:"LAZYPLAN_DB_PATH"`
	Storage    string `json:"storage" env:"LAZYPLAN_STORAGE"`
	WebEnabled bool   `json:"web_enabled" env:"LAZYPLAN_WEB_ENABLED"`
	WebPort    int    `json:"web_port" env:"LAZYPLAN_WEB_PORT"`
	LogLevel   string `json:"log_level" env:"LAZYPLAN_LOG_LEVEL"`
	ExportDir  string `json:"export_dir" env:"LAZYPLAN_EXPORT_DIR"`
}

func Default() Config {
	return Config{
		Storage:  StorageSQLite,
		WebPort:  8080,
		LogLevel: "info",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazyplan", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// ApplyEnv overlays LAZYPLAN_* variables on cfg. A .env file in the working
// directory is read first when present.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageBadger:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		return fmt.Errorf("web port %d out of range", c.WebPort)
	}
	return nil
}

// LogPath is where the terminal UI writes logs, next to the database.
func (c Config) LogPath() string {
	return filepath.Join(filepath.Dir(c.DBPath), "lazyplan.log")
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
