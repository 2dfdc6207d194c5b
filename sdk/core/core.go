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

// Package core 提供可注入的亂數來源與開獎取樣工具。
//
// 所有需要亂數的元件都透過 *Core 取得亂數，不使用全域亂數，
// 因此同一個 seed 可以完整重現產生的號碼組。
package core

import "slices"

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
// bounded 取樣（IntN/UintN）交由實作決定，讓不同 PRNG 使用各自最合適的無偏演算法。
type RAND interface {
	// Uint64 回傳 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一實作、同一版本下，New(seed) 必須是決定性的，
// 相同 seed 產生相同的輸出序列。seed 由呼叫端（Lab）統一管理與派生。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 預設的 PRNGFactory（PCG64）
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供開獎常用的取樣方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewWithSeed 以預設 PRNG 與指定 seed 建立 Core
func NewWithSeed(seed int64) *Core {
	return New(NewPCG64(seed))
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}

// ShuffleInts 以 Fisher-Yates 就地重排，所有排列機率相等。
func (c *Core) ShuffleInts(src []int) {
	if len(src) <= 1 {
		return
	}
	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}

// SampleDistinct 從 [lo, hi] 均勻抽出 k 個互異整數，回傳遞增排序的結果。
//
// 使用部分 Fisher-Yates：只洗前 k 個位置，O(hi-lo+1) 空間、O(k) 亂數消耗。
// 參數不合法（k <= 0 或 k 大於區間長度）時回傳 nil。
func (c *Core) SampleDistinct(lo, hi, k int) []int {
	span := hi - lo + 1
	if k <= 0 || span < k {
		return nil
	}
	pool := make([]int, span)
	for i := range pool {
		pool[i] = lo + i
	}
	for i := 0; i < k; i++ {
		j := i + c.IntN(span-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	out := pool[:k:k]
	slices.Sort(out)
	return out
}
