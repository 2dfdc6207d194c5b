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

// Package store 以 SQLite 保存各彩種的歷史開獎，依 game id 分組、依匯入順序（舊到新）讀回。
//
// 分析引擎本身不碰儲存；伺服器與 CLI 透過 Store 取得完整的開獎序列後再交給引擎。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/history"
)

// Memory 記憶體資料庫路徑（測試用）
const Memory = ":memory:"

// Store 開獎資料庫
type Store struct {
	db *sql.DB
}

// GameInfo 單一彩種的儲存資訊
type GameInfo struct {
	GameID    string    `json:"game_id"    yaml:"game_id"`
	Draws     int       `json:"draws"      yaml:"draws"`
	Source    string    `json:"source"     yaml:"source"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Open 開啟（必要時建立）資料庫並套用 migration
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errs.NewFatal("db path required")
	}
	dsn := path
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errs.Wrap(err, "create db directory failed")
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.Wrap(err, "open db failed")
	}
	// 單一寫入者；:memory: 每條連線都是獨立資料庫
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(err, "ping db failed")
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close 關閉資料庫
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errs.Wrap(err, "close db failed")
	}
	return nil
}

// Save 以 draws 取代該彩種既有的全部紀錄
func (s *Store) Save(ctx context.Context, gameID string, source string, draws []history.Draw) error {
	id, err := normID(gameID)
	if err != nil {
		return err
	}
	return s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM draws WHERE game_id = ?`, id); err != nil {
			return errs.Wrap(err, "clear draws failed")
		}
		if err := insert(ctx, tx, id, 0, draws); err != nil {
			return err
		}
		return touch(ctx, tx, id, source, len(draws))
	})
}

// Append 在該彩種既有紀錄之後追加
func (s *Store) Append(ctx context.Context, gameID string, draws []history.Draw) error {
	id, err := normID(gameID)
	if err != nil {
		return err
	}
	return s.tx(ctx, func(tx *sql.Tx) error {
		var next int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM draws WHERE game_id = ?`, id).Scan(&next); err != nil {
			return errs.Wrap(err, "read next seq failed")
		}
		if err := insert(ctx, tx, id, next, draws); err != nil {
			return err
		}
		var source string
		err := tx.QueryRowContext(ctx, `SELECT source FROM imports WHERE game_id = ?`, id).Scan(&source)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return errs.Wrap(err, "read import source failed")
		}
		return touch(ctx, tx, id, source, next+len(draws))
	})
}

// Load 依匯入順序（舊到新）讀回該彩種的全部紀錄；沒有資料時回傳空 slice
func (s *Store) Load(ctx context.Context, gameID string) ([]history.Draw, error) {
	id, err := normID(gameID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT drawn_at, numbers, bonus FROM draws WHERE game_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, errs.Wrap(err, "query draws failed")
	}
	defer rows.Close()

	out := []history.Draw{}
	for rows.Next() {
		var (
			at    string
			nums  string
			bonus sql.NullInt64
		)
		if err := rows.Scan(&at, &nums, &bonus); err != nil {
			return nil, errs.Wrap(err, "scan draw failed")
		}
		d := history.Draw{}
		if at != "" {
			t, err := time.Parse(time.RFC3339Nano, at)
			if err != nil {
				return nil, errs.Wrap(err, "decode draw date failed")
			}
			d.Date = t
		}
		if err := json.Unmarshal([]byte(nums), &d.Numbers); err != nil {
			return nil, errs.Wrap(err, "decode draw numbers failed")
		}
		if bonus.Valid {
			b := int(bonus.Int64)
			d.Bonus = &b
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate draws failed")
	}
	return out, nil
}

// Games 列出有紀錄的彩種
func (s *Store) Games(ctx context.Context) ([]GameInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.game_id, i.source, i.updated_at, COUNT(d.seq)
		FROM imports i LEFT JOIN draws d ON d.game_id = i.game_id
		GROUP BY i.game_id, i.source, i.updated_at
		ORDER BY i.game_id`)
	if err != nil {
		return nil, errs.Wrap(err, "query games failed")
	}
	defer rows.Close()

	out := []GameInfo{}
	for rows.Next() {
		var (
			g  GameInfo
			at string
		)
		if err := rows.Scan(&g.GameID, &g.Source, &at, &g.Draws); err != nil {
			return nil, errs.Wrap(err, "scan game failed")
		}
		g.UpdatedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate games failed")
	}
	return out, nil
}

// Delete 刪除該彩種的全部紀錄，回傳刪除筆數
func (s *Store) Delete(ctx context.Context, gameID string) (int64, error) {
	id, err := normID(gameID)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM draws WHERE game_id = ?`, id)
		if err != nil {
			return errs.Wrap(err, "delete draws failed")
		}
		n, _ = res.RowsAffected()
		if _, err := tx.ExecContext(ctx, `DELETE FROM imports WHERE game_id = ?`, id); err != nil {
			return errs.Wrap(err, "delete import failed")
		}
		return nil
	})
	return n, err
}

func (s *Store) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(err, "begin tx failed")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.Wrap(err, "commit failed")
	}
	return nil
}

func insert(ctx context.Context, tx *sql.Tx, id string, from int, draws []history.Draw) error {
	if len(draws) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO draws (game_id, seq, drawn_at, numbers, bonus) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errs.Wrap(err, "prepare insert failed")
	}
	defer stmt.Close()

	for i, d := range draws {
		nums, err := json.Marshal(d.Numbers)
		if err != nil {
			return errs.Wrap(err, "encode draw numbers failed")
		}
		at := ""
		if !d.Date.IsZero() {
			at = d.Date.UTC().Format(time.RFC3339Nano)
		}
		var bonus any
		if d.Bonus != nil {
			bonus = *d.Bonus
		}
		if _, err := stmt.ExecContext(ctx, id, from+i, at, string(nums), bonus); err != nil {
			return errs.Wrap(err, "insert draw failed")
		}
	}
	return nil
}

func touch(ctx context.Context, tx *sql.Tx, id string, source string, rows int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO imports (game_id, source, rows, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET source = excluded.source, rows = excluded.rows, updated_at = excluded.updated_at`,
		id, source, rows, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errs.Wrap(err, "record import failed")
	}
	return nil
}

func normID(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", errs.NewWarn("game id required")
	}
	return id, nil
}
