package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zintix-labs/drawlab"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/generator"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/ingest"
	"github.com/zintix-labs/drawlab/report"
	"github.com/zintix-labs/drawlab/sdk/perf"
	"github.com/zintix-labs/drawlab/server/logger"
	"github.com/zintix-labs/drawlab/store"
)

var (
	cfg *config = new(config)
	log *slog.Logger
)

type config struct {
	game      string
	numbers   string
	csv       string
	db        string
	save      bool
	format    string
	generate  string
	count     int
	backtest  int
	worker    int
	seed      int64
	list      bool
	verbose   bool
	pprofmode string
}

func bindVar() {
	flag.StringVar(&cfg.game, "game", "melate", "game id (chispazo|melate|retro)")
	flag.StringVar(&cfg.numbers, "numbers", "", "ticket to analyze, comma separated: 5,12,25,38,45,55")
	flag.StringVar(&cfg.csv, "csv", "", "history csv file")
	flag.StringVar(&cfg.db, "db", "", "sqlite draw store; history is loaded from it when -csv is empty")
	flag.BoolVar(&cfg.save, "save", false, "save the -csv history into -db (replace)")
	flag.StringVar(&cfg.format, "format", "table", "output format: table|json|yaml")
	flag.StringVar(&cfg.generate, "generate", "", "generate tickets: plain|smart|omega")
	flag.IntVar(&cfg.count, "count", 1, "number of tickets to generate")
	flag.IntVar(&cfg.backtest, "backtest", 0, "number of generated tickets to backtest against history")
	flag.IntVar(&cfg.worker, "worker", 1, "number of backtest workers")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.BoolVar(&cfg.list, "list", false, "list available games")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logs to stderr")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()
}

// 這裡解析並分支要執行的功能
func execute() error {
	if err := cfg.valid(); err != nil {
		return err
	}

	mode := logger.ModeSilence
	if cfg.verbose {
		mode = logger.ModeDev
	}
	log = logger.NewDefaultLogger(mode)
	opts := []drawlab.Option{drawlab.WithLogger(log)}
	if cfg.seed >= 0 {
		opts = append(opts, drawlab.WithSeed(cfg.seed))
	}
	lab, err := drawlab.NewDefault(opts...)
	if err != nil {
		return err
	}

	if cfg.list {
		return listGames(lab)
	}
	// -generate 單獨使用時只產號；與 -backtest 併用時為回測的產號模式
	if cfg.generate != "" && cfg.backtest == 0 {
		return generate(lab)
	}

	draws, err := loadHistory(lab)
	if err != nil {
		return err
	}
	switch {
	case cfg.backtest > 0:
		return backtest(lab, draws)
	case cfg.numbers != "":
		return analyze(lab, draws)
	case cfg.save:
		return nil
	}
	flag.Usage()
	return nil
}

func (cfg *config) valid() error {
	cfg.format = strings.ToLower(strings.TrimSpace(cfg.format))
	if _, err := report.RenderFor(cfg.format); err != nil {
		return err
	}
	if !slices.Contains(perf.Modes, cfg.pprofmode) {
		return errs.Warnf("value err : unknown pprof mode %q", cfg.pprofmode)
	}
	if cfg.worker < 1 {
		return errs.NewWarn("value err : workers must > 0")
	}
	if cfg.count < 1 {
		return errs.NewWarn("value err : count must > 0")
	}
	if cfg.backtest < 0 {
		return errs.NewWarn("value err : backtest must >= 0")
	}
	if cfg.save && (cfg.csv == "" || cfg.db == "") {
		return errs.NewWarn("value err : -save needs both -csv and -db")
	}
	return nil
}

func listGames(lab *drawlab.Lab) error {
	p := message.NewPrinter(language.English)
	for _, g := range lab.Games() {
		rs, err := lab.Ruleset(g.ID)
		if err != nil {
			return err
		}
		p.Printf("%-10s %-22s %d of %d-%d  zone %d-%d  min prize $%d\n",
			rs.ID, rs.DisplayName, rs.Positions, rs.MinNumber, rs.MaxNumber, rs.ZoneMin, rs.ZoneMax, rs.GuaranteedMinimum)
	}
	return nil
}

func generate(lab *drawlab.Lab) error {
	mode, err := generator.ParseMode(cfg.generate)
	if err != nil {
		return err
	}
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	base := lab.NextSeed()
	p.Printf("%s[GAME:%s] [MODE:%s] [SEED:%d]%s\n", green, cfg.game, mode, base, reset)
	for i := 0; i < cfg.count; i++ {
		res, err := lab.GenerateDetail(cfg.game, mode, base+int64(i))
		if err != nil {
			return err
		}
		mark := ""
		if res.Fallback {
			mark = " (fallback)"
		}
		p.Printf("%s  sum=%d  in_zone=%t  attempts=%d%s\n", fmtTicket(res.Numbers), res.Sum, res.InZone, res.Attempts, mark)
	}
	return nil
}

func fmtTicket(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

// loadHistory 讀取 -csv（可選擇寫入 -db），否則從 -db 讀取；兩者皆無時回傳空序列
func loadHistory(lab *drawlab.Lab) ([]history.Draw, error) {
	rs, err := lab.Enabled(cfg.game)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()

	var st *store.Store
	if cfg.db != "" {
		st, err = store.Open(ctx, cfg.db)
		if err != nil {
			return nil, err
		}
		defer st.Close()
	}

	if cfg.csv != "" {
		f, err := os.Open(cfg.csv)
		if err != nil {
			return nil, errs.Wrap(err, "open csv failed")
		}
		defer f.Close()
		res, err := ingest.ParseCSV(f)
		if err != nil {
			return nil, err
		}
		if res.Skipped > 0 {
			log.Debug("csv rows skipped", slog.String("file", cfg.csv), slog.Int("skipped", res.Skipped))
		}
		if cfg.save {
			if err := st.Save(ctx, rs.ID, cfg.csv, res.Draws); err != nil {
				return nil, err
			}
			fmt.Fprintf(os.Stderr, "saved %d draws for %s into %s\n", len(res.Draws), rs.ID, cfg.db)
		}
		return res.Draws, nil
	}
	if st != nil {
		return st.Load(ctx, rs.ID)
	}
	return []history.Draw{}, nil
}

func analyze(lab *drawlab.Lab, draws []history.Draw) error {
	raw := make([]any, 0, 8)
	for _, s := range strings.Split(cfg.numbers, ",") {
		raw = append(raw, strings.TrimSpace(s))
	}
	rep, err := lab.Analyze(raw, cfg.game, draws)
	if err != nil {
		return err
	}
	r, err := report.RenderFor(cfg.format)
	if err != nil {
		return err
	}
	return r.Write(os.Stdout, rep)
}

func backtest(lab *drawlab.Lab, draws []history.Draw) error {
	mode, err := generator.ParseMode(cfg.generate)
	if err != nil {
		return err
	}
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[WORKERS:%d] [GAME:%s] [MODE:%s] [TICKETS:%d] [DRAWS:%d]%s\n", green, cfg.worker, cfg.game, mode, cfg.backtest, len(draws), reset)
	rep, err := lab.Backtest(cfg.game, mode, draws, cfg.backtest, cfg.worker, cfg.format == "table")
	if err != nil {
		return err
	}
	return rep.Write(os.Stdout, cfg.format)
}
