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

package store

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/zintix-labs/drawlab/errs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateUp 套用所有尚未執行的 migration。
// 使用既有連線（WithInstance），不關閉 migrate 實例以免一併關閉 db。
func migrateUp(db *sql.DB) error {
	dir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return errs.Wrap(err, "access migrations directory failed")
	}
	src, err := iofs.New(dir, ".")
	if err != nil {
		return errs.Wrap(err, "create migration source failed")
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return errs.Wrap(err, "create migration driver failed")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return errs.Wrap(err, "create migration instance failed")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errs.Wrap(err, "apply migrations failed")
	}
	return nil
}

// SchemaVersion 回傳目前 schema 版本
func (s *Store) SchemaVersion() (uint, error) {
	var v uint
	err := s.db.QueryRow(`SELECT version FROM schema_migrations LIMIT 1`).Scan(&v)
	if err != nil {
		return 0, errs.Wrap(err, "read schema version failed")
	}
	return v, nil
}
