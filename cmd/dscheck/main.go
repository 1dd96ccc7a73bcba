// Command dscheck sweeps stored bar data for minutes missing inside a
// product's trading session, printing one CSV line per gap.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/check"
	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/store"
	"github.com/jefferypaul/platinum-ds/internal/version"
)

func main() {
	root := flag.String("root", "", "data store root directory")
	productArg := flag.String("product", "", "product name, e.g. rb.SHFE")
	zone := flag.String("zone", "210", "timezone index of the session reference data")
	startArg := flag.String("start", "", "start date YYYYMMDD")
	endArg := flag.String("end", "", "end date YYYYMMDD (empty: single-date query)")
	holidays := flag.Bool("holidays", true, "skip exchange holidays")
	verbose := flag.Bool("v", false, "debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *root == "" || *productArg == "" || *startArg == "" {
		fmt.Fprintln(os.Stderr, "usage: dscheck -root DIR -product NAME -start YYYYMMDD [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	start, err := model.ParseDay(*startArg)
	if err != nil {
		logger.Error("invalid start date", "error", err)
		os.Exit(1)
	}
	var end time.Time
	if *endArg != "" {
		end, err = model.ParseDay(*endArg)
		if err != nil {
			logger.Error("invalid end date", "error", err)
			os.Exit(1)
		}
	}

	st, err := store.Open(*root, store.WithLogger(logger))
	if err != nil {
		logger.Error("failed to open data store", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	product := st.Registry().ProductFromName(*productArg)
	checker := check.New(st, logger)

	gaps, err := checker.CheckProduct(ctx, product, *zone, start, end, *holidays)
	if err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}
	for _, gap := range gaps {
		for _, tod := range gap.Missing {
			fmt.Printf("%s,%s,%s\n", gap.Ticker.Name(), model.FormatDay(gap.Date), tod.Clock())
		}
	}

	missing, err := checker.CheckMostActive(ctx, product, start, end, *holidays)
	if err != nil {
		logger.Error("most-active check failed", "error", err)
		os.Exit(1)
	}
	for _, day := range missing {
		fmt.Printf("%s,%s,missing-most-active-file\n", product.Name(), model.FormatDay(day))
	}

	logger.Info("check finished",
		"product", product.Name(),
		"gaps", len(gaps),
		"missing_most_active_days", len(missing),
	)
	if len(gaps) > 0 || len(missing) > 0 {
		os.Exit(3)
	}
}
