// Copyright 2025 Zintix Labs
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
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/drawlab"
	"github.com/zintix-labs/drawlab/server"
	"github.com/zintix-labs/drawlab/server/logger"
	"github.com/zintix-labs/drawlab/server/svrcfg"
	"github.com/zintix-labs/drawlab/store"
)

// 設定來源優先序：flag > 環境變數（DRAWLAB_*）> 預設值。
func main() {
	sCfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := server.Run(sCfg); err != nil {
		os.Exit(1)
	}
}

func loadConfig(args []string) (*svrcfg.SvrCfg, error) {
	env, err := svrcfg.ParseEnv()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("svr", flag.ContinueOnError)
	fs.StringVar(&env.Addr, "addr", env.Addr, "listen address")
	fs.StringVar(&env.LogMode, "log-mode", env.LogMode, "log mode: ModeDev|ModeProd|ModeSilence")
	fs.StringVar(&env.DBPath, "db", env.DBPath, "sqlite draw store path ('' disables the store)")
	fs.Int64Var(&env.Seed, "seed", env.Seed, "base seed for generation (0 = random)")
	fs.Float64Var(&env.RateLimit, "rate", env.RateLimit, "requests per second (<= 0 disables rate limiting)")
	fs.IntVar(&env.RateBurst, "burst", env.RateBurst, "rate limit burst")
	fs.DurationVar(&env.ShutdownTimeout, "shutdown", env.ShutdownTimeout, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	log, _ := logger.NewAsync(4096, svrcfg.LogModeOf(env.LogMode))

	opts := []drawlab.Option{drawlab.WithLogger(log)}
	if env.Seed != 0 {
		opts = append(opts, drawlab.WithSeed(env.Seed))
	}
	lab, err := drawlab.NewDefault(opts...)
	if err != nil {
		return nil, err
	}

	var st *store.Store
	if env.DBPath != "" {
		st, err = store.Open(context.Background(), env.DBPath)
		if err != nil {
			return nil, err
		}
	}

	return &svrcfg.SvrCfg{
		Addr:      env.Addr,
		Log:       log,
		Lab:       lab,
		Store:     st,
		RateLimit: env.RateLimit,
		RateBurst: env.RateBurst,

		ShutdownTimeout: env.ShutdownTimeout,
	}, nil
}
