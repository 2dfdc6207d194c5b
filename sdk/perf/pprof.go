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

// Package perf 以 runtime/pprof 包裝一次性的 CLI 執行，產出 cpu / heap / allocs profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/drawlab/errs"
)

// Dir pprof 檔案寫入路徑
var Dir = "build/profiling"

// Modes 支援的 profile 類型（空字串代表不做 profiling）
var Modes = []string{"", "cpu", "heap", "allocs"}

// RunPProf 依 mode 執行 exe 並寫出對應的 profile；未知的 mode 視為不做 profiling。
// exe 的錯誤優先回傳。
func RunPProf(exe func() error, mode string) error {
	switch mode {
	case "cpu":
		return PProfCPU(exe)
	case "heap":
		return snapshot(exe, "heap")
	case "allocs":
		return snapshot(exe, "allocs")
	default:
		return exe()
	}
}

// PProfCPU 在 exe 執行期間做 CPU profiling，也可作為 pgo 的 default.pgo 來源。
//
//	go run ./cmd/run -game melate -backtest 1000000 -worker 8 -csv h.csv -p cpu
func PProfCPU(exe func() error) error {
	f, err := create("cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start pprof")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// snapshot 在 exe 完成後寫出 heap（in-use，先 GC）或 allocs（累積配置）profile
func snapshot(exe func() error, name string) error {
	if err := exe(); err != nil {
		return err
	}
	if name == "heap" {
		runtime.GC()
	}
	f, err := create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("unknown profile %s", name)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "failed to write "+name+" profile")
	}
	return nil
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create profiling dir")
	}
	f, err := os.Create(filepath.Join(Dir, name+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create "+name+".pprof")
	}
	return f, nil
}
