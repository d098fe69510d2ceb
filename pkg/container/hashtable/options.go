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

package hashtable

import (
	"math"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/config"
)

const (
	DefaultCapacity   = config.DefaultInitialCapacity
	DefaultLoadFactor = config.DefaultLoadFactor
)

// Options are the construction parameters shared by every container.
type Options struct {
	InitialCapacity      int
	LoadFactor           float32
	AutoCompactionFactor float32

	compactionSet bool
}

type Option func(*Options)

// WithCapacity sizes the table for n elements.
func WithCapacity(n int) Option {
	return func(o *Options) {
		o.InitialCapacity = n
	}
}

func WithLoadFactor(lf float32) Option {
	return func(o *Options) {
		o.LoadFactor = lf
	}
}

// WithAutoCompactionFactor overrides the default, which is the load factor.
func WithAutoCompactionFactor(f float32) Option {
	return func(o *Options) {
		o.AutoCompactionFactor = f
		o.compactionSet = true
	}
}

func WithoutAutoCompaction() Option {
	return WithAutoCompactionFactor(0)
}

// WithParameters applies a configuration section, defaulting zero fields.
func WithParameters(p config.HashParameters) Option {
	p.SetDefaultValues()
	return func(o *Options) {
		o.InitialCapacity = p.InitialCapacity
		o.LoadFactor = p.LoadFactor
		o.AutoCompactionFactor = p.AutoCompactionFactor
		o.compactionSet = true
	}
}

func buildOptions(opts []Option) (Options, error) {
	o := Options{
		InitialCapacity: DefaultCapacity,
		LoadFactor:      DefaultLoadFactor,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.compactionSet {
		o.AutoCompactionFactor = o.LoadFactor
	}
	if o.InitialCapacity < 0 {
		return o, moerr.NewInvalidArgNoCtx("initial capacity", o.InitialCapacity)
	}
	if !validLoadFactor(o.LoadFactor) {
		return o, moerr.NewInvalidArgNoCtx("load factor", o.LoadFactor)
	}
	if !validCompactionFactor(o.AutoCompactionFactor) {
		return o, moerr.NewInvalidArgNoCtx("auto compaction factor", o.AutoCompactionFactor)
	}
	return o, nil
}

func validLoadFactor(lf float32) bool {
	return !math.IsNaN(float64(lf)) && lf > 0 && lf <= 1
}

func validCompactionFactor(f float32) bool {
	return !math.IsNaN(float64(f)) && f >= 0
}
