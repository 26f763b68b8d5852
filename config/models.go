package config

// Config holds the configuration of shimmock.
// Use LoadConfig to create a new instance.
type Config struct {
	Server        ServerConfig      `mapstructure:"server"         yaml:"server"         json:"server"`
	Log           LogConfig         `mapstructure:"log"            yaml:"log"            json:"log"`
	Auth          AuthConfig        `mapstructure:"auth"           yaml:"auth"           json:"auth"`
	PassThrough   PassThroughConfig `mapstructure:"passthrough"    yaml:"passthrough"    json:"passthrough"`
	Fixtures      FixturesConfig    `mapstructure:"fixtures"       yaml:"fixtures"       json:"fixtures"`
	Metrics       MetricsConfig     `mapstructure:"metrics"        yaml:"metrics"        json:"metrics"`
	Tracing       TracingConfig     `mapstructure:"tracing"        yaml:"tracing"        json:"tracing"`
	CORS          CORSConfig        `mapstructure:"cors"           yaml:"cors"           json:"cors"`
	CustomHeaders map[string]string `mapstructure:"custom_headers" yaml:"custom_headers" json:"custom_headers,omitempty"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port int    `mapstructure:"port" yaml:"port" json:"port" validate:"gte=1,lte=65535"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

type AuthConfig struct {
	Secret   string `mapstructure:"secret"   yaml:"secret"   json:"secret"`
	Required bool   `mapstructure:"required" yaml:"required" json:"required"`
}

// PassThroughConfig controls where requests matched by a pass-through rule are forwarded.
// An empty Upstream means pass-through requests are answered with 502.
type PassThroughConfig struct {
	Upstream string `mapstructure:"upstream"  yaml:"upstream"  json:"upstream"  validate:"omitempty,url"`
	RetryMax int    `mapstructure:"retry_max" yaml:"retry_max" json:"retry_max" validate:"gte=0"`
	// Timeout in seconds, 0 disables it
	Timeout int `mapstructure:"timeout" yaml:"timeout" json:"timeout" validate:"gte=0"`
}

// FixturesConfig points at an optional YAML fixture file. The built-in Withings fixtures
// are used when Path is empty.
type FixturesConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"  yaml:"enabled"  json:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint" validate:"required_if=Enabled true"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
}
