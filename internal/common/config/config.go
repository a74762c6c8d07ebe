package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"concierge-bot"`

	Server struct {
		Port            int           `env:"PORT" envDefault:"8080"`
		Origin          string        `env:"ORIGIN" envDefault:"http://localhost:3000"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
		// Срок жизни init data Mini App, 0 отключает проверку
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
	}

	Database struct {
		// postgres или sqlite
		Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
		URL             string        `env:"DB_URL" envDefault:"./data/app.db"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	Redis struct {
		// Пустой адрес переключает хранение сессий в память процесса
		Addr       string        `env:"REDIS_ADDR" envDefault:""`
		Password   string        `env:"REDIS_PASSWORD" envDefault:""`
		DB         int           `env:"REDIS_DB" envDefault:"0"`
		SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	}

	Telegram struct {
		BotToken         string   `env:"BOT_TOKEN,required,notEmpty"`
		Debug            bool     `env:"TELEGRAM_DEBUG" envDefault:"false"`
		AdminIDs         []string `env:"ADMIN_IDS" envSeparator:","`
		BootstrapAdminID int64    `env:"BOOTSTRAP_ADMIN_ID" envDefault:"0"`
		PollTimeout      int      `env:"POLL_TIMEOUT" envDefault:"30"`
		// @username канала, членство в котором обязательно перед оформлением заказа
		RequiredChannel string `env:"REQUIRED_CHANNEL" envDefault:""`
		// приглашение в закрытый канал, заданный числовым ID
		ChannelInviteURL string `env:"CHANNEL_INVITE_URL" envDefault:""`
		SupportUsername  string `env:"SUPPORT_USERNAME" envDefault:""`
	}
}

func Load() (*Config, error) {
	// .env может отсутствовать: в production переменные задаются напрямую
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.AdminTelegramIDs(); err != nil {
		return nil, err
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return cfg, nil
}

// AdminTelegramIDs разбирает ADMIN_IDS в список Telegram ID.
func (c *Config) AdminTelegramIDs() ([]int64, error) {
	ids := make([]int64, 0, len(c.Telegram.AdminIDs))
	for _, raw := range c.Telegram.AdminIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
