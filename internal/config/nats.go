package config

import (
	"time"
)

type Nats struct {
	// empty url disables profile events
	URL              string        `env:"NATS_URL" envDefault:""`
	MaxReconnects    int           `env:"NATS_MAX_RECONNECTS" envDefault:"10"`
	ReconnectTimeout time.Duration `env:"NATS_RECONNECT_TIMEOUT" envDefault:"1s"`
	SubjectPrefix    string        `env:"NATS_SUBJECT_PREFIX" envDefault:"profile"`
}
