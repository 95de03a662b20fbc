package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refsys/internal/cache"
	"github.com/pdiddy/refsys/internal/store"
	"github.com/pdiddy/refsys/internal/verify"
	"github.com/pdiddy/refsys/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [work-ids...]",
	Short: "Verify stored works against public registries",
	Long: `Verify checks each work's identifiers against the registries that
issued them: DOI resolution, URL reachability, arXiv and PubMed lookup,
and Crossref retraction status. When a URL check fails but a DOI is
present, open-access alternatives are suggested via Unpaywall.

With no arguments every stored work is verified. Registry responses are
cached, so repeat runs only re-check expired entries.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Duration("timeout", 0, "per-check timeout (default 10s)")
	verifyCmd.Flags().Int("concurrency", 0, "number of works verified in parallel (default 5)")
	verifyCmd.Flags().Float64("rps", 0, "outbound requests per second (default 10)")
	verifyCmd.Flags().String("unpaywall-email", "", "contact email for the open-access registry")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
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
		fmt.Fprintln(os.Stdout, "No works to verify.")
		return nil
	}

	checkTimeout, _ := cmd.Flags().GetDuration("timeout")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	rps, _ := cmd.Flags().GetFloat64("rps")
	unpaywallEmail, _ := cmd.Flags().GetString("unpaywall-email")

	cfg := types.VerifyConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		CheckTimeout:      checkTimeout,
		Concurrency:       concurrency,
		RequestsPerSecond: rps,
		UnpaywallEmail:    secretDefault("unpaywall-email", unpaywallEmail),
	}

	log := newLogger(cmd)
	defer log.Sync()

	v := verify.New(responses, cfg, verify.WithLogger(log))
	reports, summary, err := v.VerifyBatch(ctx, items, os.Stdout)
	if err != nil {
		return err
	}

	for i, rep := range reports {
		if rep == nil {
			continue
		}
		if err := db.SaveReport(ctx, items[i].ID, rep); err != nil {
			return err
		}
		// A failed retraction check means the registry reported the work
		// retracted or corrected; persist that onto the record.
		if rep.Retraction != nil && rep.Retraction.Status == types.StatusFail && !items[i].Retracted {
			items[i].Retracted = true
			if err := db.SaveWork(ctx, items[i]); err != nil {
				return err
			}
		}
	}

	if summary.Failures > 0 {
		return fmt.Errorf("%d work(s) failed verification", summary.Failures)
	}
	return nil
}

// selectWorks loads the requested works, or all stored works when no
// IDs are given.
func selectWorks(ctx context.Context, db *store.Store, ids []string) ([]*types.CSLItem, error) {
	if len(ids) == 0 {
		return db.GetWorks(ctx)
	}
	items := make([]*types.CSLItem, 0, len(ids))
	for _, id := range ids {
		item, err := db.GetWork(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
