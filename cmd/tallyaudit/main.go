package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/ballotbox/api/internal/adapters/repository/postgres"
	"github.com/ballotbox/api/internal/core/services"
)

// tallyaudit walks every poll and checks that the sum of its choice counters
// equals the number of rows in the vote ledger. Drift means a bug in the
// cast-vote transaction or out-of-band writes; the job exits non-zero so a
// scheduler can alert on it.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	var dbHost, dbPort, dbUser, dbPass, dbName string

	flag.StringVar(&dbHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	flag.StringVar(&dbPort, "db-port", os.Getenv("POSTGRES_PORT"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.Parse()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	pollRepo := postgres.NewPollRepository(db)
	tallyRepo := postgres.NewTallyRepository(db)
	tallyService := services.NewTallyService(pollRepo, tallyRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	slog.Info("starting tally audit")

	reports, err := tallyService.VerifyAllCounts(ctx)
	if err != nil {
		slog.Error("tally audit failed", "error", err)
		os.Exit(1)
	}

	drifted := 0
	for _, report := range reports {
		if report.Consistent() {
			continue
		}
		drifted++
		slog.Error("tally drift detected",
			"poll_id", report.PollID,
			"counter_sum", report.CounterSum,
			"ledger_count", report.LedgerCount,
		)
	}

	if drifted > 0 {
		slog.Error("tally audit finished with drift", "polls_checked", len(reports), "polls_drifted", drifted)
		os.Exit(1)
	}

	slog.Info("tally audit completed", "polls_checked", len(reports))
}
