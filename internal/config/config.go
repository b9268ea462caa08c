// Package config loads the optional YAML config file as a kong resolver.
// Keys are the flag names in snake_case, e.g.
//
//	api_url: https://ordiaa.example.com
//	store: ~/.config/ordiaa/ordiaa.db
//	debug: true
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader. An empty file resolves nothing.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("config file has values that cannot be used as flags: %w", err)
	}
	return kong.JSON(bytes.NewReader(data))
}
