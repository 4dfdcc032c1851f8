package storage

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulleysim/internal/config"
)

// ConfigHash fingerprints a config by its YAML encoding. Runs of the same
// setup share a hash.
func ConfigHash(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("hash config: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
