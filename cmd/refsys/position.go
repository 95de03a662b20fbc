package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refsys/internal/cache"
	"github.com/pdiddy/refsys/internal/position"
	"github.com/pdiddy/refsys/internal/store"
	"github.com/pdiddy/refsys/pkg/types"
)

var positionCmd = &cobra.Command{
	Use:   "position [work-ids...]",
	Short: "Score the scientific standing of stored works",
	Long: `Position classifies each work (publication type, peer review,
review/meta-analysis) and derives a 0-100 consensus score from those
signals plus the work's citation count and age. Citation counts come
from OpenAlex and are cached.

With no arguments every stored work is scored.`,
	RunE: runPosition,
}

func init() {
	positionCmd.Flags().String("openalex-email", "", "contact email for the OpenAlex polite pool")
	positionCmd.Flags().Int("reference-year", 0, "anchor year for age scoring (default: current year)")

	rootCmd.AddCommand(positionCmd)
}

func runPosition(cmd *cobra.Command, args []string) error {
	db, err := store.Open(storePath(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	responses, err := cache.OpenSQLite(cachePath(cmd))
	if err != nil {
		return err
	}
	defer responses.Close()

	ctx := context.Background()
	items, err := selectWorks(ctx, db, args)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "No works to score.")
		return nil
	}

	openAlexEmail, _ := cmd.Flags().GetString("openalex-email")
	refYear, _ := cmd.Flags().GetInt("reference-year")

	cfg := types.PositionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		OpenAlexEmail: secretDefault("openalex-email", openAlexEmail),
		ReferenceYear: refYear,
	}

	log := newLogger(cmd)
	defer log.Sync()

	analyzer := position.NewAnalyzer(responses, cfg, position.WithLogger(log))

	for _, item := range items {
		meta := analyzer.AnalyzeWork(ctx, item)
		if err := db.SavePosition(ctx, item.ID, meta); err != nil {
			return err
		}

		score := meta.ConsensusScore
		item.ConsensusScore = &score
		if err := db.SaveWork(ctx, item); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%-16s score %3d (%s)  %s, %d citations\n",
			item.ID, score, position.Label(score), meta.PublicationType, meta.CitationCount)
	}

	fmt.Fprintf(os.Stdout, "\n%d work(s) scored\n", len(items))
	return nil
}
