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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/config"
)

func defaultConfiguration(t *testing.T) *config.Configuration {
	t.Helper()
	cfg, err := loadConfiguration(context.Background(), "")
	require.NoError(t, err)
	return cfg
}

func TestRunWorkload(t *testing.T) {
	ctx := context.Background()
	wo := workloadOptions{Ops: 20000, Workers: 4, KeySpace: 500, Seed: 7}
	m, report, err := runWorkload(ctx, defaultConfiguration(t), wo)
	require.NoError(t, err)
	require.Equal(t, m.Len(), report.Len)
	require.Equal(t, 500, m.Len())
	require.Equal(t, m.Capacity(), report.Capacity)
	require.NotZero(t, report.Stats.Grows)

	total := int64(0)
	m.ForEachValue(func(v int64) bool {
		total += v
		return true
	})
	require.Equal(t, int64(wo.Ops), total)
}

func TestRunWorkloadWithRemoves(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfiguration(t)
	wo := workloadOptions{Ops: 20000, Workers: 3, KeySpace: 2000, RemoveRatio: 0.5, Seed: 1138}
	m, report, err := runWorkload(ctx, cfg, wo)
	require.NoError(t, err)
	require.Less(t, m.Len(), 2000)
	require.LessOrEqual(t, report.Len, report.Capacity)

	// disabling compaction must show up in the statistics
	cfg.Hash.DisableAutoCompaction = true
	cfg.Hash.SetDefaultValues()
	_, report, err = runWorkload(ctx, cfg, wo)
	require.NoError(t, err)
	require.Zero(t, report.Stats.Compactions)
}

func TestRunWorkloadInvalidOptions(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfiguration(t)
	for _, wo := range []workloadOptions{
		{Ops: -1, Workers: 1, KeySpace: 1},
		{Ops: 1, Workers: 0, KeySpace: 1},
		{Ops: 1, Workers: 1, KeySpace: 0},
		{Ops: 1, Workers: 1, KeySpace: 1, RemoveRatio: 1.5},
	} {
		_, _, err := runWorkload(ctx, cfg, wo)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg), "%+v", wo)
	}
}

func TestRunWorkloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := runWorkload(ctx, defaultConfiguration(t), workloadOptions{Ops: 100, Workers: 2, KeySpace: 10})
	require.Error(t, err)
}

func TestPersistAndVerify(t *testing.T) {
	ctx := context.Background()
	m, _, err := runWorkload(ctx, defaultConfiguration(t), workloadOptions{Ops: 5000, Workers: 2, KeySpace: 300, Seed: 3})
	require.NoError(t, err)

	dir := t.TempDir()
	for _, compress := range []bool{false, true} {
		path := filepath.Join(dir, "plain")
		if compress {
			path = filepath.Join(dir, "lz4")
		}
		n, err := persist(ctx, path, m, compress)
		require.NoError(t, err)
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, n, info.Size())
		require.NoError(t, verify(ctx, path, m))
	}

	m.Put(-1, 1)
	err = verify(ctx, filepath.Join(dir, "plain"), m)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))

	require.Error(t, verify(ctx, filepath.Join(dir, "missing"), m))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk"), []byte("junk"), 0o644))
	require.Error(t, verify(ctx, filepath.Join(dir, "junk"), m))
}

func TestLoadConfiguration(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte("[hash]\nloadFactor = 0.75\n"), 0o644))
	cfg, err := loadConfiguration(ctx, path)
	require.NoError(t, err)
	require.Equal(t, float32(0.75), cfg.Hash.LoadFactor)
	require.Equal(t, float32(0.75), cfg.Hash.AutoCompactionFactor)

	_, err = loadConfiguration(ctx, filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
