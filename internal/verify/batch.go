// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/refsys/pkg/types"
)

// BatchSummary holds the outcome counts of a batch verification run.
type BatchSummary struct {
	Works    int
	OK       int
	Warnings int
	Failures int
}

// VerifyBatch verifies every record on a bounded worker pool and
// returns one report per record, in input order. No record's checks can
// abort another's: the per-check warn mapping already absorbs registry
// failures, so workers only stop early when the context is cancelled.
func (v *Verifier) VerifyBatch(ctx context.Context, items []*types.CSLItem, w io.Writer) ([]*types.VerificationReport, BatchSummary, error) {
	reports := make([]*types.VerificationReport, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.Concurrency)

	var mu sync.Mutex // serializes progress output
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep := v.VerifyWork(ctx, item)
			reports[i] = rep

			mu.Lock()
			fmt.Fprintf(w, "%-12s %s (ok: %d, warn: %d, fail: %d)\n",
				statusWord(rep), item.ID,
				rep.Count(types.StatusOK), rep.Count(types.StatusWarn), rep.Count(types.StatusFail))
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	var summary BatchSummary
	for _, rep := range reports {
		if rep == nil {
			continue
		}
		summary.Works++
		switch {
		case rep.HasFailures():
			summary.Failures++
		case rep.Count(types.StatusWarn) > 0:
			summary.Warnings++
		default:
			summary.OK++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d verified, %d with warnings, %d with failures (total: %d)\n",
		summary.OK, summary.Warnings, summary.Failures, summary.Works)

	return reports, summary, err
}

func statusWord(rep *types.VerificationReport) string {
	switch {
	case rep.HasFailures():
		return "failed:"
	case rep.Count(types.StatusWarn) > 0:
		return "warning:"
	default:
		return "verified:"
	}
}
