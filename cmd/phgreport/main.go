// Command phgreport serves an HTML dashboard over a phgsim run
// catalogue: recent runs, their productivity tables, and summary charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/simset-go/phgsim/internal/phg/report"
	"github.com/simset-go/phgsim/internal/phg/store/sqlite"
	"github.com/simset-go/phgsim/internal/version"
)

func main() {
	var (
		listen      string
		dbPath      string
		versionFlag bool
	)

	flag.BoolVar(&versionFlag, "version", false, "print version and exit")
	flag.StringVar(&listen, "listen", ":8080", "HTTP address to listen on")
	flag.StringVar(&dbPath, "db", "phgsim.db", "sqlite database of run summaries")
	flag.Parse()

	if versionFlag {
		fmt.Printf("phgreport v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		os.Exit(0)
	}
	log.Printf("phgreport v%s (git SHA: %s)", version.Version, version.GitSHA)

	store, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("phgreport: opening %s: %v", dbPath, err)
	}
	defer store.Close()

	srv := report.New(report.Config{Address: listen, Store: store})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("phgreport: listening on %s", listen)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("phgreport: %v", err)
	}
}
