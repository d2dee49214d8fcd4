package redis

import (
	"errors"
	"time"
)

// Config represents the Redis client configuration
type Config struct {
	// Addr is the host:port address of the Redis server
	Addr string `mapstructure:"addr"`

	// Username for ACL authentication (optional)
	Username string `mapstructure:"username"`

	// Password for authentication (optional)
	Password string `mapstructure:"password"`

	// DB selects the logical database
	DB int `mapstructure:"db"`

	// PoolSize is the maximum number of socket connections
	PoolSize int `mapstructure:"pool_size"`

	// MinIdleConns keeps a minimum number of idle connections open
	MinIdleConns int `mapstructure:"min_idle_conns"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("redis: addr is required")
	}
	return nil
}

// SetDefaults sets default values for unspecified fields
func (c *Config) SetDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}
