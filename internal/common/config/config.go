package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
		User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
		Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
		Database        string        `env:"POSTGRES_DB" envDefault:"tournaments"`
		SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	// Vision is the outbound photo-authenticity collaborator.
	Vision struct {
		BaseURL       string        `env:"VISION_BASE_URL" envDefault:""`
		APIKey        string        `env:"VISION_API_KEY" envDefault:""`
		Timeout       time.Duration `env:"VISION_TIMEOUT" envDefault:"5s"`
		MinConfidence int           `env:"VISION_MIN_CONFIDENCE" envDefault:"70"`
	}

	Notify struct {
		BaseURL string        `env:"NOTIFY_BASE_URL" envDefault:""`
		Timeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	}

	Scheduler struct {
		SweepInterval      time.Duration `env:"SCHEDULER_SWEEP_INTERVAL" envDefault:"1m"`
		LeaderboardRefresh time.Duration `env:"SCHEDULER_LEADERBOARD_REFRESH" envDefault:"5m"`
		JudgingWindow      time.Duration `env:"SCHEDULER_JUDGING_WINDOW" envDefault:"24h"`
	}

	// Scoring constants are configurable: the multipliers are product choices,
	// not domain rules.
	Scoring struct {
		WeightMultiplier float64 `env:"SCORING_WEIGHT_MULTIPLIER" envDefault:"10"`
		LengthMultiplier float64 `env:"SCORING_LENGTH_MULTIPLIER" envDefault:"5"`
		PointsPerCatch   int64   `env:"SCORING_POINTS_PER_CATCH" envDefault:"10"`
		PointsPerSpecies int64   `env:"SCORING_POINTS_PER_SPECIES" envDefault:"25"`
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.Database, c.Postgres.SSLMode)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func Load() *Config {
	// A missing .env file is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
