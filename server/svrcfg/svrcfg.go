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

package svrcfg

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/zintix-labs/drawlab"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/server/logger"
	"github.com/zintix-labs/drawlab/store"
)

// Env 伺服器的環境變數設定（前綴 DRAWLAB_）。命令列 flag 可再覆寫。
type Env struct {
	Addr      string  `env:"ADDR"       envDefault:":5808"`
	LogMode   string  `env:"LOG_MODE"   envDefault:"ModeDev"`
	DBPath    string  `env:"DB_PATH"    envDefault:"data/drawlab.db"`
	Seed      int64   `env:"SEED"`
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"20"`
	RateBurst int     `env:"RATE_BURST" envDefault:"40"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// ParseEnv 從環境變數讀取設定
func ParseEnv() (*Env, error) {
	e := new(Env)
	if err := env.ParseWithOptions(e, env.Options{Prefix: "DRAWLAB_"}); err != nil {
		return nil, errs.Wrap(err, "parse env failed")
	}
	return e, nil
}

// LogModeOf 將字串轉為 logger.LogMode；無法辨識時回傳 ModeDev
func LogModeOf(s string) logger.LogMode {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "Mode")) {
	case "prod":
		return logger.ModeProd
	case "silence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}

// SvrCfg 伺服器組裝所需的全部依賴
type SvrCfg struct {
	Addr      string // 空字串使用 :5808
	Log       *slog.Logger
	Lab       *drawlab.Lab
	Store     *store.Store // 可為 nil：此時 /v1/draws 與自動載入歷史不可用
	RateLimit float64      // 每秒請求數；<= 0 代表不限流
	RateBurst int

	ShutdownTimeout time.Duration // <= 0 使用 app.DefaultShutdownTimeout
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.RateLimit > 0 {
		sc.RateBurst = max(1, sc.RateBurst)
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}
