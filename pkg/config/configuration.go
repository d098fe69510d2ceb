// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"math"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/logutil"
)

type ConfigurationKeyType int

const (
	ParameterUnitKey ConfigurationKeyType = 1
)

const (
	DefaultInitialCapacity = 10
	DefaultLoadFactor      = float32(0.5)
)

// HashParameters tunes open addressing containers.
type HashParameters struct {
	//default is 10. the number of elements a new container holds without rehashing.
	InitialCapacity int `toml:"initialCapacity"`

	//default is 0.5. maximum ratio of occupied slots, in (0, 1].
	LoadFactor float32 `toml:"loadFactor"`

	//default equals loadFactor. removals between automatic compactions, relative to size.
	AutoCompactionFactor float32 `toml:"autoCompactionFactor"`

	//default is false. true turns automatic compaction off (factor 0).
	DisableAutoCompaction bool `toml:"disableAutoCompaction"`
}

// Configuration is the toml root document.
type Configuration struct {
	Hash HashParameters `toml:"hash"`

	Log logutil.LogConfig `toml:"log"`
}

// SetDefaultValues fills zero fields.
func (c *Configuration) SetDefaultValues() {
	c.Hash.SetDefaultValues()
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

func (hp *HashParameters) SetDefaultValues() {
	if hp.InitialCapacity == 0 {
		hp.InitialCapacity = DefaultInitialCapacity
	}
	if hp.LoadFactor == 0 {
		hp.LoadFactor = DefaultLoadFactor
	}
	if hp.DisableAutoCompaction {
		hp.AutoCompactionFactor = 0
	} else if hp.AutoCompactionFactor == 0 {
		hp.AutoCompactionFactor = hp.LoadFactor
	}
}

func (hp *HashParameters) Validate(ctx context.Context) error {
	if hp.InitialCapacity < 0 {
		return moerr.NewInvalidArg(ctx, "initialCapacity", hp.InitialCapacity)
	}
	if lf := float64(hp.LoadFactor); math.IsNaN(lf) || lf <= 0 || lf > 1 {
		return moerr.NewInvalidArg(ctx, "loadFactor", hp.LoadFactor)
	}
	if f := float64(hp.AutoCompactionFactor); math.IsNaN(f) || f < 0 {
		return moerr.NewInvalidArg(ctx, "autoCompactionFactor", hp.AutoCompactionFactor)
	}
	return nil
}

func (c *Configuration) Validate(ctx context.Context) error {
	if err := c.Hash.Validate(ctx); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return moerr.NewInvalidArg(ctx, "log format", c.Log.Format)
	}
	return nil
}

// LoadFile decodes, defaults and validates the toml file at path.
func LoadFile(ctx context.Context, path string) (*Configuration, error) {
	c := &Configuration{}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, moerr.NewInvalidInput(ctx, "decode config file %s: %v", path, err)
	}
	return finish(ctx, c)
}

// Parse is LoadFile for an in memory document.
func Parse(ctx context.Context, data string) (*Configuration, error) {
	c := &Configuration{}
	if _, err := toml.Decode(data, c); err != nil {
		return nil, moerr.NewInvalidInput(ctx, "decode config: %v", err)
	}
	return finish(ctx, c)
}

func finish(ctx context.Context, c *Configuration) (*Configuration, error) {
	c.SetDefaultValues()
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// WithConfiguration stores c in ctx.
func WithConfiguration(ctx context.Context, c *Configuration) context.Context {
	return context.WithValue(ctx, ParameterUnitKey, c)
}

// GetConfiguration returns the configuration stored by WithConfiguration,
// or nil.
func GetConfiguration(ctx context.Context) *Configuration {
	c, _ := ctx.Value(ParameterUnitKey).(*Configuration)
	return c
}
