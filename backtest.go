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

package drawlab

import (
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/generator"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/recorder"
	"github.com/zintix-labs/drawlab/sdk/core"
)

// Backtest 以 workers 個 goroutine 產生 tickets 張彩券，逐張與歷史開獎比對最佳命中數，
// 並與隨機彩券的理論機率比較。seed 由 Lab 的 seed 序列派生。
func (l *Lab) Backtest(id string, mode generator.Mode, draws []history.Draw, tickets int, workers int, showpb bool) (*recorder.BacktestReport, error) {
	return l.BacktestWithSeed(id, mode, draws, tickets, workers, l.seeds.next(), showpb)
}

// BacktestWithSeed 同 Backtest，但指定 seed；相同 seed 與 workers 得到相同報表
func (l *Lab) BacktestWithSeed(id string, mode generator.Mode, draws []history.Draw, tickets int, workers int, seed int64, showpb bool) (*recorder.BacktestReport, error) {
	rs, err := l.cat.GetEnabled(id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(generator.Modes, mode) {
		return nil, errs.Kindf(errs.KindUnknownMode, "unknown generation mode %q", string(mode))
	}
	if tickets < 1 {
		return nil, errs.NewWarn("tickets must > 0")
	}
	if workers < 1 {
		return nil, errs.NewWarn("workers must > 0")
	}
	valid, skipped := history.NormalizeAll(draws, rs)
	if len(valid) == 0 {
		return nil, errs.NewWarn("backtest needs at least one valid draw")
	}
	if skipped > 0 {
		l.log.Debug("skipped malformed draws", "game", rs.ID, "skipped", skipped)
	}
	workers = min(workers, tickets)

	sm := newSeedMaker(seed)
	cores := make([]*core.Core, workers)
	recs := make([]*recorder.HitRecorder, workers)
	for i := range workers {
		cores[i] = core.New(l.cf.New(sm.next()))
		r, err := recorder.NewHitRecorder(rs.ID, string(mode), rs.Positions)
		if err != nil {
			return nil, err
		}
		recs[i] = r
	}

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.StartNew(tickets)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	per, rem := tickets/workers, tickets%workers
	errOnce := new(atomic.Pointer[error])
	for i := range workers {
		n := per
		if i < rem {
			n++
		}
		go func(c *core.Core, r *recorder.HitRecorder, n int) {
			defer wg.Done()
			for range n {
				res, err := generator.Generate(rs, mode, c)
				if err != nil {
					errOnce.CompareAndSwap(nil, &err)
					return
				}
				r.Record(history.BestHits(res.Numbers, valid), res.Sum, res.InZone, res.Fallback)
				bar.Increment()
			}
		}(cores[i], recs[i], n)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if e := errOnce.Load(); e != nil {
		return nil, *e
	}

	merged, err := recorder.MergeHitRecorder(recs)
	if err != nil {
		return nil, err
	}
	rep := merged.Done(rs.Span(), len(valid), history.MinGroupHits)
	rep.Seed = seed
	rep.Used = used
	return rep, nil
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state，再用可逆 mix63 打散。
// 可能被多個 goroutine 同時呼叫，state 以 CAS 推進，每次呼叫取得唯一的 state。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 bit 操作與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
