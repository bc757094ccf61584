package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"llmgateway/logger"
)

// seedDocument mirrors the shape of providers.json/groups.json/keys.json but
// as ordered lists, which is friendlier for an operator to hand-write once.
type seedDocument struct {
	Providers []Provider  `yaml:"providers"`
	Groups    []Group     `yaml:"groups"`
	Keys      []AccessKey `yaml:"keys"`
}

// SeedIfEmpty loads the YAML seed file at seedPath (if present) into the
// store, but only when the store has no providers yet; main passes
// seed.yaml inside the config directory. This makes the seed a one-time
// bootstrap convenience: once an admin has written any provider through the
// JSON documents, the seed file is ignored on every subsequent boot.
func (s *Store) SeedIfEmpty(seedPath string) error {
	if len(s.ListProviders()) > 0 {
		return nil
	}

	data, err := os.ReadFile(seedPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}

	logger.Info("bootstrapping config from seed", "path", seedPath,
		"providers", len(doc.Providers), "groups", len(doc.Groups), "keys", len(doc.Keys))

	for _, p := range doc.Providers {
		if err := s.UpsertProvider(p); err != nil {
			return err
		}
	}
	for _, g := range doc.Groups {
		if err := s.UpsertGroup(g); err != nil {
			return err
		}
	}
	for _, k := range doc.Keys {
		if _, err := s.UpsertKey(k); err != nil {
			return err
		}
	}

	return nil
}
