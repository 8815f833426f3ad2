package config

type API struct {
	HTTPBind string `env:"API_HTTP_SERVER_BIND" envDefault:":11000"`
	GRPCBind string `env:"API_GRPC_SERVER_BIND" envDefault:":11001"`
}

type Prometheus struct {
	Listen string `env:"PROMETHEUS_LISTEN" envDefault:":2112"`
}

type Health struct {
	Listen string `env:"HEALTH_LISTEN" envDefault:":3000"`
}
