package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"notemint/internal/adapter/repo"
	"notemint/internal/domain"
	"notemint/internal/infra"
	"notemint/internal/notes"
)

const dateLayout = "2006-01-02"

func main() {
	_ = godotenv.Load()

	now := time.Now().UTC()
	var (
		fromFlag string
		toFlag   string
		minFlag  int
		dryRun   bool
	)
	flag.StringVar(&fromFlag, "from", now.AddDate(0, 0, -1).Format(dateLayout), "start of the rating window (YYYY-MM-DD or RFC3339, inclusive)")
	flag.StringVar(&toFlag, "to", now.Format(dateLayout), "end of the rating window (YYYY-MM-DD or RFC3339, exclusive)")
	flag.IntVar(&minFlag, "min", 3, "minimum number of ratings a note needs")
	flag.BoolVar(&dryRun, "dry-run", false, "print eligible notes without queueing mint jobs")
	flag.Parse()

	from, err := parseTime(fromFlag)
	if err != nil {
		exitWithError(fmt.Errorf("invalid -from: %w", err))
	}
	to, err := parseTime(toFlag)
	if err != nil {
		exitWithError(fmt.Errorf("invalid -to: %w", err))
	}
	if minFlag < 1 {
		exitWithError(errors.New("-min must be at least 1"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "finalise").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	eligible, err := notes.NewService(notes.NewPGRatingReader(runner)).NotesToFinalise(ctx, from, to, minFlag)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load notes: %w", err))
	}
	fmt.Printf("%d notes eligible between %s and %s\n", len(eligible), from.Format(time.RFC3339), to.Format(time.RFC3339))

	eligible, missing := notes.SplitMintable(eligible)
	for _, note := range missing {
		logger.Warn().Str("post_url", note.PostURL).Str("creator", note.Creator).Msg("finalise: note has no stored content, skipped")
	}
	if len(missing) > 0 {
		fmt.Printf("%d notes skipped without stored content\n", len(missing))
	}

	jobs := repo.NewJobRepository(runner)
	queued := 0
	for _, note := range eligible {
		if dryRun {
			fmt.Printf("%s by %s (%d ratings)\n", note.PostURL, note.Creator, len(note.Ratings))
			continue
		}
		payload, err := json.Marshal(note)
		if err != nil {
			exitWithError(fmt.Errorf("failed to encode note: %w", err))
		}
		id, err := jobs.Enqueue(ctx, &domain.MintJob{Kind: domain.JobKindNote, Payload: payload, RequestedBy: "finalise"})
		if err != nil {
			logger.Error().Err(err).Str("post_url", note.PostURL).Msg("finalise: enqueue failed")
			continue
		}
		queued++
		fmt.Printf("queued %s for %s\n", id, note.PostURL)
	}
	if !dryRun {
		fmt.Printf("%d mint jobs queued\n", queued)
	}
}

func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(dateLayout, v)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
