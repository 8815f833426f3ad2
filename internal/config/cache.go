package config

import (
	"time"
)

const (
	CacheMediumMemory = "memory"
	CacheMediumRedis  = "redis"
)

type Cache struct {
	Medium     string        `env:"CACHE_MEDIUM" envDefault:"memory"`
	DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"5m"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}
