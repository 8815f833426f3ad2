package config

const (
	RemoteBackendPostgres = "postgres"
	RemoteBackendVault    = "vault"
	RemoteBackendMemory   = "memory"
)

type Remote struct {
	Backend string `env:"REMOTE_BACKEND" envDefault:"postgres"`
}
