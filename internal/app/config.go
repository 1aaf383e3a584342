package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/bolao/internal/tickets"
)

type Config struct {
	Server struct {
		Port         string `toml:"port" validate:"required"`
		CookieSecure bool   `toml:"cookie_secure"`
	} `toml:"server"`

	Database struct {
		DSN           string `toml:"dsn" validate:"required"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Admin struct {
		Username     string `toml:"username"`
		PasswordHash string `toml:"password_hash"`
	} `toml:"admin"`

	Session struct {
		RedisURL    string `toml:"redis_url"`
		KeyTemplate string `toml:"key_template" validate:"required,contains={token}"`
		CookieName  string `toml:"cookie_name" validate:"required"`
		TTLMinutes  int    `toml:"ttl_minutes" validate:"min=1"`
	} `toml:"session"`

	Game struct {
		PicksPerBatch  int    `toml:"picks_per_batch" validate:"min=1"`
		NumbersPerPick int    `toml:"numbers_per_pick" validate:"min=1"`
		BatchPolicy    string `toml:"batch_policy" validate:"oneof=raw accepted"`
		EnforceRange   bool   `toml:"enforce_range"`
		MinNumber      int    `toml:"min_number"`
		MaxNumber      int    `toml:"max_number" validate:"gtfield=MinNumber"`
	} `toml:"game"`
}

func defaultConfig() Config {
	var config Config
	config.Server.Port = ":5000"
	config.Database.DSN = "instance/lottery.db"
	config.Database.MigrationsDir = "./migrations"
	config.Session.KeyTemplate = "bolao:session:{token}"
	config.Session.CookieName = "bolao_session"
	config.Session.TTLMinutes = 12 * 60

	rules := tickets.DefaultRules()
	config.Game.PicksPerBatch = rules.PicksPerBatch
	config.Game.NumbersPerPick = rules.NumbersPerPick
	config.Game.BatchPolicy = string(rules.BatchPolicy)
	config.Game.MinNumber = rules.MinNumber
	config.Game.MaxNumber = rules.MaxNumber
	return config
}

// LoadConfig reads the TOML file at path on top of the defaults, then
// applies environment overrides. An empty path means env and defaults only.
func LoadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf(
				"error reading config file %s\n> Error: %w\n> Content:\n%s",
				path,
				err,
				string(data),
			)
		}
	}

	config.applyEnv()

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.Admin.PasswordHash == "" {
		logger.Info.Println("No admin password hash configured, admin login is disabled")
	}
	logger.Debug.Printf("Loaded game config: %+v", config.Game)

	return &config, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		c.Server.Port = port
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if user := os.Getenv("ADMIN_USER"); user != "" {
		c.Admin.Username = user
	}
	if hash := os.Getenv("ADMIN_PASS_HASH"); hash != "" {
		c.Admin.PasswordHash = hash
	}
	if url := os.Getenv("SESSION_REDIS_URL"); url != "" {
		c.Session.RedisURL = url
	}
}

func (c *Config) GameRules() tickets.Rules {
	return tickets.Rules{
		PicksPerBatch:  c.Game.PicksPerBatch,
		NumbersPerPick: c.Game.NumbersPerPick,
		BatchPolicy:    tickets.BatchPolicy(c.Game.BatchPolicy),
		EnforceRange:   c.Game.EnforceRange,
		MinNumber:      c.Game.MinNumber,
		MaxNumber:      c.Game.MaxNumber,
	}
}
