// Command dsquery resolves and prints bar data from a flat-file data
// store. It prints one CSV line per bar to stdout, or with -paths the
// resolved file paths per day.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/store"
	"github.com/jefferypaul/platinum-ds/internal/version"
)

func main() {
	root := flag.String("root", "", "data store root directory")
	symbol := flag.String("symbol", "", "ticker or product name, e.g. rb2410.SHFE or rb.SHFE")
	product := flag.Bool("product", false, "treat -symbol as a product")
	exchange := flag.String("exchange", "", "query every ticker of an exchange instead of -symbol")
	startArg := flag.String("start", "", "start date YYYYMMDD")
	endArg := flag.String("end", "", "end date YYYYMMDD (empty: single-date query)")
	modeArg := flag.String("mode", "normal", "normal or backadjusted")
	holidays := flag.Bool("holidays", true, "skip exchange holidays")
	pathsOnly := flag.Bool("paths", false, "print resolved file paths instead of bars")
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

	if *root == "" || (*symbol == "" && *exchange == "") {
		fmt.Fprintln(os.Stderr, "usage: dsquery -root DIR (-symbol NAME | -exchange EXCH) -start YYYYMMDD [flags]")
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
	mode, err := store.ParseMode(*modeArg)
	if err != nil {
		logger.Error("invalid mode", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(*root, store.WithLogger(logger))
	if err != nil {
		logger.Error("failed to open data store", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *exchange != "" {
		if *pathsOnly {
			paths, err := st.ResolveExchangePaths(ctx, *exchange, start, end, *holidays)
			if err != nil {
				logger.Error("resolve failed", "error", err)
				os.Exit(1)
			}
			printPaths(paths)
			return
		}
		bars, err := st.ReadExchangeBars(ctx, *exchange, start, end, *holidays)
		if err != nil {
			logger.Error("read failed", "error", err)
			os.Exit(1)
		}
		printBars(bars)
		return
	}

	instrument, err := parseInstrument(st, *symbol, *product)
	if err != nil {
		logger.Error("invalid symbol", "error", err)
		os.Exit(1)
	}

	if *pathsOnly {
		paths, err := st.ResolvePaths(ctx, instrument, start, end, mode, *holidays)
		if err != nil {
			logger.Error("resolve failed", "error", err)
			os.Exit(1)
		}
		printPaths(paths)
		return
	}

	bars, err := st.ReadBars(ctx, instrument, start, end, mode, *holidays)
	if err != nil {
		logger.Error("read failed", "error", err)
		os.Exit(1)
	}
	printBars(bars)
}

func parseInstrument(st *store.Store, name string, asProduct bool) (model.Instrument, error) {
	if asProduct {
		return st.Registry().ProductFromName(name), nil
	}
	return st.Registry().TickerFromName(name), nil
}

func printPaths(paths store.PathsByDay) {
	for _, day := range paths.Days() {
		for _, p := range paths[day] {
			fmt.Printf("%s,%s\n", model.FormatDay(day), p)
		}
	}
}

func printBars(bars store.BarsByDay) {
	days := make([]time.Time, 0, len(bars))
	for day := range bars {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	for _, day := range days {
		for _, b := range bars[day] {
			fmt.Printf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
				b.Ticker.Name(),
				model.FormatDay(b.Date),
				b.Time.Clock(),
				fmtF(b.Open), fmtF(b.High), fmtF(b.Low), fmtF(b.Close),
				fmtF(b.Volume), fmtF(b.Price), fmtF(b.OpenInterest),
			)
		}
	}
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
