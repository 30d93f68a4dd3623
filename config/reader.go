package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Read reads a config from the given file. Environment variables in the file are expanded.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	cfg := Config{
		ConfigFilePath: originalPath,
	}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	if err := cfg.Validate("drive"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromAttributes decodes a config from a generic attribute map, such as one embedded in a
// larger robot config, using the json field names.
func FromAttributes(attributes map[string]interface{}) (*Config, error) {
	var cfg Config
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from attributes")
	}
	if len(md.Unused) > 0 {
		return nil, errors.Errorf("unknown drive attributes %v", md.Unused)
	}
	if err := cfg.Validate("drive"); err != nil {
		return nil, err
	}
	return &cfg, nil
}
