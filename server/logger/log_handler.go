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

// Package logger 組裝 drawlab 使用的 *slog.Logger。
//
// Lab 與 server 只依賴 *slog.Logger；這裡提供依 LogMode 建立的預設 handler，
// 以及把任何 slog.Handler 轉為非阻塞寫出的 AsyncHandler。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// LogMode 預設輸出模式
type LogMode uint8

const (
	ModeDev     LogMode = iota // text, stderr, debug
	ModeProd                   // json, stdout, info
	ModeSilence                // 全部丟棄
)

// String 回傳與環境變數相同的名稱
func (m LogMode) String() string {
	switch m {
	case ModeProd:
		return "ModeProd"
	case ModeSilence:
		return "ModeSilence"
	default:
		return "ModeDev"
	}
}

// Service 每筆 log 都帶上的服務名稱
const Service = "drawlab"

// NewDefaultLogger 依 LogMode 建立同步 logger
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(NewHandler(mode, nil))
}

// NewAsync 依 LogMode 建立非同步 logger；呼叫端負責在結束時 Close 回傳的 handler
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(NewHandler(mode, nil), buf)
	return slog.New(ah), ah
}

// NewHandler 依 LogMode 建立 handler；w 為 nil 時使用模式預設的輸出
func NewHandler(mode LogMode, w io.Writer) slog.Handler {
	var h slog.Handler
	switch mode {
	case ModeProd:
		if w == nil {
			w = os.Stdout
		}
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 4})
	default:
		if w == nil {
			w = os.Stderr
		}
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return h.WithAttrs([]slog.Attr{slog.String("service", Service)})
}

// AsyncHandler 將 Handle 轉為 enqueue，由背景 goroutine 依序寫給 next。
// 佇列滿或 Close 之後的紀錄直接丟棄並計數，不會阻塞請求路徑。
// slog.Logger 會忽略 Handle 的 error，寫出失敗需由 next 自行處理。
type AsyncHandler struct {
	next slog.Handler
	q    *queue
}

type queue struct {
	ch      chan entry
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type entry struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler 以容量 buf 的佇列包裝 next；buf <= 0 時使用 1024
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = NewHandler(ModeDev, nil)
	}
	if buf <= 0 {
		buf = 1024
	}
	q := &queue{ch: make(chan entry, buf), done: make(chan struct{})}
	q.wg.Add(1)
	go q.loop()
	return &AsyncHandler{next: next, q: q}
}

func (q *queue) loop() {
	defer q.wg.Done()
	for {
		select {
		case e := <-q.ch:
			q.write(e)
		case <-q.done:
			q.drain()
			return
		}
	}
}

func (q *queue) drain() {
	for {
		select {
		case e := <-q.ch:
			q.write(e)
		default:
			return
		}
	}
}

func (q *queue) write(e entry) {
	if e.h != nil {
		_ = e.h.Handle(e.ctx, e.rec)
	}
}

// Ready 回報 handler 是否已初始化
func (h *AsyncHandler) Ready() bool {
	return h != nil && h.q != nil
}

// Dropped 因佇列滿或已關閉而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	if !h.Ready() {
		return 0
	}
	return h.q.dropped.Load()
}

// Close 停止接收新紀錄並寫完佇列中剩餘的紀錄；可重複呼叫
func (h *AsyncHandler) Close() {
	if !h.Ready() {
		return
	}
	h.q.once.Do(func() { close(h.q.done) })
	h.q.wg.Wait()
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Ready() {
		return nil
	}
	select {
	case <-h.q.done:
		h.q.dropped.Add(1)
		return nil
	default:
	}
	select {
	case h.q.ch <- entry{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}
