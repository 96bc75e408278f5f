// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// Configuration sources, in merge priority order.
const (
	sourceEnv   = "env"
	sourceFlags = "flags"
	sourceJSON  = "json"
)

// layer is the partial configuration read from one source.
type layer struct {
	source string
	cfg    *StructuredConfig
}

// configBuilder collects layers and merges them so the first layer that sets
// a field wins. Source errors are gathered and reported together by build.
type configBuilder struct {
	layers []layer
	args   []string
	errs   []error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{layers: make([]layer, 0, 3)}
}

func (b *configBuilder) add(source string, cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("%s: %w", source, err))
		return b
	}
	b.layers = append(b.layers, layer{source: source, cfg: cfg})
	return b
}

func (b *configBuilder) withEnv(environ []string) *configBuilder {
	cfg, err := parseEnv(environ)
	return b.add(sourceEnv, cfg, err)
}

// withFlags parses args and keeps the positional words for the command.
func (b *configBuilder) withFlags(args []string) *configBuilder {
	cfg, rest, err := ParseFlags(args)
	b.args = rest
	return b.add(sourceFlags, cfg, err)
}

// withJSON reads the file named by the highest priority layer that names
// one. Without a path it adds nothing.
func (b *configBuilder) withJSON() *configBuilder {
	path := b.jsonPath()
	if path == "" {
		return b
	}
	cfg, err := parseJSON(path)
	return b.add(sourceJSON, cfg, err)
}

func (b *configBuilder) jsonPath() string {
	for _, l := range b.layers {
		if l.cfg.JSONFilePath != "" {
			return l.cfg.JSONFilePath
		}
	}
	return ""
}

// build merges the layers and validates the result.
func (b *configBuilder) build() (*StructuredConfig, []string, error) {
	if len(b.errs) > 0 {
		return nil, nil, fmt.Errorf("error loading configuration: %w", errors.Join(b.errs...))
	}

	merged := new(StructuredConfig)
	for _, l := range b.layers {
		if err := mergo.Merge(merged, l.cfg); err != nil {
			return nil, nil, fmt.Errorf("error merging %s configuration: %w", l.source, err)
		}
	}

	if err := merged.validate(); err != nil {
		return nil, nil, err
	}
	return merged, b.args, nil
}
