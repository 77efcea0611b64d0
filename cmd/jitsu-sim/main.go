package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
)

func main() {
	n := flag.Int("n", 1000, "number of duels")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	limit := flag.Int("max-turns", 500, "abandon a duel after this many turns")
	starterPath := flag.String("starter", "", "YAML starter deck (default: built-in)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zcfg := zap.NewDevelopmentConfig()
	if !*verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	starter := cardjitsu.DefaultStarter()
	if *starterPath != "" {
		f, err := os.Open(*starterPath)
		if err != nil {
			logger.Fatal("open_starter_failed", zap.Error(err))
		}
		starter, err = cardjitsu.LoadStarter(f)
		_ = f.Close()
		if err != nil {
			logger.Fatal("load_starter_failed", zap.Error(err))
		}
	}

	start := time.Now()
	st, err := simulate(starter, *n, *limit, *seed)
	if err != nil {
		logger.Fatal("simulate_failed", zap.Error(err))
	}
	logger.Debug("simulate_done", zap.Int("duels", st.Duels), zap.Duration("elapsed", time.Since(start)))

	fmt.Printf("duels=%d seed=%d starter=%d cards\n", st.Duels, *seed, len(starter))
	kinds := make([]string, 0, len(st.ByKind))
	for k := range st.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		c := st.ByKind[cardjitsu.WinKind(k)]
		fmt.Printf("  %-14s %6d (%5.1f%%)\n", k, c, pct(c, st.Duels))
	}
	fmt.Printf("  %-14s %6d (%5.1f%%)\n", "unfinished", st.Unfinished, pct(st.Unfinished, st.Duels))
	fmt.Printf("seat wins: first=%d second=%d\n", st.BySeat[0], st.BySeat[1])
	fmt.Printf("turns: avg=%.1f max=%d ties=%d\n", st.AvgTurns(), st.MaxTurns, st.Ties)
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
