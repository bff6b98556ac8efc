package console

import (
	"io"

	yaml "gopkg.in/yaml.v2"
)

type ResourceConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

func (rc ResourceConfig) ResourcePath() string {
	// the resource path can be overridden if the API mounts a
	// resource somewhere other than its default location
	if rc.Path != "" {
		return rc.Path
	}

	return rc.Name
}

type Config struct {
	Endpoint  string           `yaml:"endpoint"`
	Debug     bool             `yaml:"debug"`
	Resources []ResourceConfig `yaml:"resources"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

// DefaultConfiguration enables all built in resources against the
// given API endpoint.
func DefaultConfiguration(endpoint string) Config {
	return Config{
		Endpoint: endpoint,
		Resources: []ResourceConfig{
			{Name: "policyholders"},
			{Name: "policies"},
			{Name: "claims"},
		},
	}
}
