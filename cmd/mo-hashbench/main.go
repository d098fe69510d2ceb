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

// mo-hashbench drives a shared primitive map with a random counting
// workload, logs the container statistics and optionally round trips the
// result through its durable form.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/matrixorigin/mocollections/pkg/config"
	"github.com/matrixorigin/mocollections/pkg/logutil"
)

var (
	configFlag      = flag.String("config", "", "toml configuration file, empty for defaults")
	opsFlag         = flag.Int("ops", 1000000, "number of operations")
	workersFlag     = flag.Int("workers", 8, "number of concurrent workers")
	keySpaceFlag    = flag.Int64("keys", 100000, "keys are drawn from [0, keys)")
	removeRatioFlag = flag.Float64("remove-ratio", 0.25, "probability of an operation being a remove")
	seedFlag        = flag.Int64("seed", 1, "random seed")
	outFlag         = flag.String("out", "", "write the final map to this file and verify it")
	compressFlag    = flag.Bool("compress", false, "lz4 compress the written map")
)

func loadConfiguration(ctx context.Context, path string) (*config.Configuration, error) {
	if path == "" {
		return config.Parse(ctx, "")
	}
	return config.LoadFile(ctx, path)
}

func run(ctx context.Context) error {
	cfg, err := loadConfiguration(ctx, *configFlag)
	if err != nil {
		return err
	}
	logutil.SetupMOLogger(&cfg.Log)
	ctx = config.WithConfiguration(ctx, cfg)

	if *cpuProfilePathFlag != "" {
		stop := startCPUProfile()
		defer stop()
	}
	if *allocsProfilePathFlag != "" {
		defer writeAllocsProfile()
	}

	m, _, err := runWorkload(ctx, cfg, workloadOptions{
		Ops:         *opsFlag,
		Workers:     *workersFlag,
		KeySpace:    *keySpaceFlag,
		RemoveRatio: *removeRatioFlag,
		Seed:        *seedFlag,
	})
	if err != nil {
		return err
	}

	if *outFlag == "" {
		return nil
	}
	n, err := persist(ctx, *outFlag, m, *compressFlag)
	if err != nil {
		return err
	}
	if err := verify(ctx, *outFlag, m); err != nil {
		return err
	}
	logutil.Info("map written", zap.String("path", *outFlag), zap.Int64("bytes", n), zap.Bool("compress", *compressFlag))
	return nil
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mo-hashbench: %v\n", err)
		stop()
		os.Exit(1)
	}
}
