package config

type App struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Prometheus Prometheus
	Health     Health
	API        API
	DB         DB
	Cache      Cache
	Redis      Redis
	Remote     Remote
	Vault      Vault
	Nats       Nats
}
