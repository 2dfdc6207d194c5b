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

// Package app 管理 drawlab 服務行程的生命週期：啟動元件、等待信號、依序收尾。
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Component 由 App 管理的長期運行元件，例如 drawlab 的 HTTP server。
// Run 阻塞直到元件停止；Shutdown 須在 ctx 期限內完成收尾。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// DefaultShutdownTimeout 收到信號或元件失敗後，所有 Shutdown 共用的期限
const DefaultShutdownTimeout = 5 * time.Second

// App 並行執行所有 Component；任一元件結束或收到 SIGINT/SIGTERM 時統一關閉。
type App struct {
	comps   []Component
	stops   []func() error
	timeout time.Duration
}

// New 建立空的 App
func New() *App { return &App{timeout: DefaultShutdownTimeout} }

// NewWith 建立 App 並註冊 comps
func NewWith(comps ...Component) *App {
	a := New()
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

// Register 加入一個元件
func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// OnStop 註冊元件關閉後的收尾（關閉 draw store、清空非同步日誌）；依註冊的相反順序執行
func (a *App) OnStop(fn func() error) {
	if fn != nil {
		a.stops = append(a.stops, fn)
	}
}

// SetShutdownTimeout 調整關閉期限；d <= 0 時忽略
func (a *App) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// Run 阻塞直到收到終止信號（回傳 nil）或任一元件的 Run 返回（回傳其結果）。
// 兩種情況都會先完成 shutdown 再返回。
func (a *App) Run() error {
	done := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) { done <- c.Run() }(c)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	var err error
	select {
	case <-sig:
	case err = <-done:
	}
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown err: %v\n", err)
		}
	}
	for i := len(a.stops) - 1; i >= 0; i-- {
		if err := a.stops[i](); err != nil {
			fmt.Fprintf(os.Stderr, "stop hook err: %v\n", err)
		}
	}
}
