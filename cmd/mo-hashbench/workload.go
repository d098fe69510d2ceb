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

package main

import (
	"context"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/config"
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
	"github.com/matrixorigin/mocollections/pkg/logutil"
)

// checkEvery is how many operations a worker runs between context checks.
const checkEvery = 1024

type workloadOptions struct {
	Ops     int
	Workers int
	// keys are drawn from [0, KeySpace)
	KeySpace    int64
	RemoveRatio float64
	Seed        int64
}

func (wo workloadOptions) validate(ctx context.Context) error {
	switch {
	case wo.Ops < 0:
		return moerr.NewInvalidArg(ctx, "ops", wo.Ops)
	case wo.Workers <= 0:
		return moerr.NewInvalidArg(ctx, "workers", wo.Workers)
	case wo.KeySpace <= 0:
		return moerr.NewInvalidArg(ctx, "key space", wo.KeySpace)
	case wo.RemoveRatio < 0 || wo.RemoveRatio > 1 || wo.RemoveRatio != wo.RemoveRatio:
		return moerr.NewInvalidArg(ctx, "remove ratio", wo.RemoveRatio)
	}
	return nil
}

type workloadReport struct {
	Len      int
	Capacity int
	Stats    hashtable.Stats
	Elapsed  time.Duration
}

func (r workloadReport) fields() []zap.Field {
	return []zap.Field{
		zap.Int("len", r.Len),
		zap.Int("capacity", r.Capacity),
		zap.Uint64("grows", r.Stats.Grows),
		zap.Uint64("reclaims", r.Stats.Reclaims),
		zap.Uint64("ensures", r.Stats.Ensures),
		zap.Uint64("compactions", r.Stats.Compactions),
		zap.Duration("elapsed", r.Elapsed),
	}
}

// runWorkload counts random keys into a shared map from wo.Workers pool
// workers, removing a key instead with probability wo.RemoveRatio.
func runWorkload(ctx context.Context, cfg *config.Configuration, wo workloadOptions) (*hashtable.HashMap[int64, int64], workloadReport, error) {
	var report workloadReport
	if err := wo.validate(ctx); err != nil {
		return nil, report, err
	}
	m, err := hashtable.NewHashMap[int64, int64](hashtable.WithParameters(cfg.Hash))
	if err != nil {
		return nil, report, err
	}
	sm := hashtable.NewSyncMap(m, nil)

	pool, err := ants.NewPool(wo.Workers)
	if err != nil {
		return nil, report, moerr.ConvertGoError(ctx, err)
	}
	defer pool.Release()

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < wo.Workers; w++ {
		ops := wo.Ops / wo.Workers
		if w < wo.Ops%wo.Workers {
			ops++
		}
		rng := rand.New(rand.NewSource(wo.Seed + int64(w)))
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				if i%checkEvery == 0 && ctx.Err() != nil {
					return
				}
				key := rng.Int63n(wo.KeySpace)
				if rng.Float64() < wo.RemoveRatio {
					sm.Remove(key)
				} else {
					sm.AdjustOrPutValue(key, 1, 1)
				}
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, report, moerr.ConvertGoError(ctx, err)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, report, moerr.ConvertGoError(ctx, err)
	}

	report.Elapsed = time.Since(start)
	sm.Do(func(m *hashtable.HashMap[int64, int64]) {
		report.Len = m.Len()
		report.Capacity = m.Capacity()
		report.Stats = m.Stats()
	})
	logutil.Info("workload done", report.fields()...)
	return m, report, nil
}

// persist writes m to path in its durable form.
func persist(ctx context.Context, path string, m *hashtable.HashMap[int64, int64], compress bool) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, moerr.ConvertGoError(ctx, err)
	}
	defer f.Close()
	var n int64
	if compress {
		n, err = m.WriteCompressedTo(f)
	} else {
		n, err = m.WriteTo(f)
	}
	if err != nil {
		return n, err
	}
	return n, moerr.ConvertGoError(ctx, f.Sync())
}

// verify reads path back and checks it holds the same mappings as m.
func verify(ctx context.Context, path string, m *hashtable.HashMap[int64, int64]) error {
	f, err := os.Open(path)
	if err != nil {
		return moerr.ConvertGoError(ctx, err)
	}
	defer f.Close()
	restored, err := hashtable.NewHashMap[int64, int64]()
	if err != nil {
		return err
	}
	if _, err := restored.ReadFrom(f); err != nil {
		return err
	}
	if !restored.Equal(m) {
		return moerr.NewInvalidState(ctx, "%s does not match the map it was written from", path)
	}
	return nil
}
