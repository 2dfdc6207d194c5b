// Package catalog 為彩種規則的註冊表：以 id 索引、穩定排序、凍結後唯讀。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/ruleset"
)

var (
	ErrDupID   = errs.NewFatal("duplicate ruleset id")
	ErrDupName = errs.NewFatal("duplicate ruleset name")
)

type Catalog struct {
	byID   map[string]*ruleset.Ruleset
	byName map[string]*ruleset.Ruleset
	ids    []string // 用來穩定排序
	frozen bool
}

// New 建立空的 Catalog
func New() *Catalog {
	return &Catalog{
		byID:   map[string]*ruleset.Ruleset{},
		byName: map[string]*ruleset.Ruleset{},
		ids:    make([]string, 0, 8),
	}
}

// Load 讀取所有 fs.FS 中的 YAML/JSON 規則、註冊並凍結後回傳。
//
// 設定目錄必須是扁平的（不得有子目錄），非 yaml/yml/json 檔案會被忽略。
func Load(src ...fs.FS) (*Catalog, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	c := New()
	rules := make([]*ruleset.Ruleset, 0, 8)
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
		err := fs.WalkDir(s, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("ruleset FS must be flat (no subdirectories): %q", path))
			}
			if strings.HasPrefix(filepath.Base(path), ".") {
				return nil
			}
			raw, rerr := fs.ReadFile(s, path)
			if rerr != nil {
				return errs.Wrap(rerr, fmt.Sprintf("read ruleset failed: %s", path))
			}
			var (
				r    *ruleset.Ruleset
				perr error
			)
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				r, perr = ruleset.FromYAML(raw)
			case ".json":
				r, perr = ruleset.FromJSON(raw)
			default:
				return nil
			}
			if perr != nil {
				return errs.WrapWithExtra(perr, "parse ruleset failed", path)
			}
			rules = append(rules, r)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(rules) == 0 {
		return nil, errs.NewFatal("no ruleset files found to register")
	}
	if err := c.Register(rules...); err != nil {
		return nil, err
	}
	c.Freeze()
	return c, nil
}

// Register 註冊規則；整批檢查通過才會寫入
func (c *Catalog) Register(rules ...*ruleset.Ruleset) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenID := map[string]struct{}{}
	seenName := map[string]struct{}{}
	for _, r := range rules {
		if r == nil {
			return errs.NewFatal("nil ruleset")
		}
		id := normKey(r.ID)
		name := normKey(r.Name)
		if id == "" {
			return errs.NewFatal("ruleset id required")
		}
		if _, ok := c.byID[id]; ok {
			return ErrDupID
		}
		if _, ok := seenID[id]; ok {
			return ErrDupID
		}
		if _, ok := c.byName[name]; ok {
			return ErrDupName
		}
		if _, ok := seenName[name]; ok {
			return ErrDupName
		}
		seenID[id] = struct{}{}
		seenName[name] = struct{}{}
	}
	for _, r := range rules {
		r = r.Clone()
		c.byID[normKey(r.ID)] = r
		c.byName[normKey(r.Name)] = r
		c.ids = append(c.ids, normKey(r.ID))
	}
	sort.Strings(c.ids)
	return nil
}

// Get 以 id 取得規則（包含停用的彩種）。找不到時回傳 ConfigError。
func (c *Catalog) Get(id string) (*ruleset.Ruleset, error) {
	r, ok := c.byID[normKey(id)]
	if !ok {
		return nil, errs.Kindf(errs.KindUnknownGame, "unknown game: %q", id)
	}
	return r.Clone(), nil
}

// GetEnabled 以 id 取得可分析的規則；停用的彩種回傳 ConfigError。
func (c *Catalog) GetEnabled(id string) (*ruleset.Ruleset, error) {
	r, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	if !r.Enabled {
		return nil, errs.Kindf(errs.KindDisabledGame, "game not enabled: %q", r.ID)
	}
	return r, nil
}

func (c *Catalog) GetByName(name string) (*ruleset.Ruleset, bool) {
	r, ok := c.byName[normKey(name)]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

func (c *Catalog) IDs() []string {
	if len(c.ids) == 0 {
		return nil
	}
	return append([]string(nil), c.ids...)
}

// Summaries 回傳啟用彩種的選單資訊（依 id 排序）
func (c *Catalog) Summaries() []ruleset.Summary {
	out := make([]ruleset.Summary, 0, len(c.ids))
	for _, id := range c.ids {
		if r := c.byID[id]; r.Enabled {
			out = append(out, r.Summary())
		}
	}
	return out
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
