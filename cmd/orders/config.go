package main

import (
	"github.com/dipdup-net/go-lib/config"
	"github.com/pkg/errors"
)

// Config -
type Config struct {
	LogLevel    string                       `yaml:"log_level" validate:"omitempty,oneof=debug trace info warn error fatal panic"`
	Orders      OrdersConfig                 `yaml:"orders"`
	DataSources map[string]config.DataSource `yaml:"datasources" validate:"required"`
	Prometheus  *config.Prometheus           `yaml:"prometheus,omitempty" validate:"omitempty"`
}

// Substitute -
func (c *Config) Substitute() error {
	return nil
}

// Load -
func Load(filename string) (cfg Config, err error) {
	err = config.Parse(filename, &cfg)
	return
}

// DataSource - order service data source
func (c Config) DataSource() (config.DataSource, error) {
	name := c.Orders.Datasource
	if name == "" {
		name = defaultDatasource
	}
	ds, ok := c.DataSources[name]
	if !ok {
		return config.DataSource{}, errors.Errorf("unknown datasource: %s", name)
	}
	return ds, nil
}

// OrdersConfig -
type OrdersConfig struct {
	Datasource   string `yaml:"datasource" validate:"omitempty"`
	PollInterval uint64 `yaml:"poll_interval" validate:"omitempty,min=1"`
	WorkersCount int    `yaml:"workers_count" validate:"omitempty,min=1"`
}
