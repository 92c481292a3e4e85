// Package viperconf adapts a viper instance into config.Config values, so the
// CLI's merged flag, file and environment settings can feed library configs.
package viperconf

import (
	"context"

	"github.com/spf13/viper"

	"github.com/bqpools/pool-client/pkg/config"
)

type conf struct {
	v   *viper.Viper
	key string
}

// NewConfig returns a config for key. Values are rendered as strings by
// viper and handed to the typed wrappers as raw bytes, so a YAML integer and
// an environment string parse the same way.
func NewConfig(v *viper.Viper, key string) config.Config {
	return &conf{
		v:   v,
		key: key,
	}
}

// Get implements Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	val := c.v.GetString(c.key)
	if len(val) == 0 {
		return nil, config.ErrNoValue
	}

	return []byte(val), nil
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

type source struct {
	v *viper.Viper
}

// NewSource returns a config.Source over v.
func NewSource(v *viper.Viper) config.Source {
	return &source{v: v}
}

// Config implements config.Source.Config
func (s *source) Config(key string) config.Config {
	return NewConfig(s.v, key)
}
