package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refsys/internal/ingest"
	"github.com/pdiddy/refsys/internal/store"
	"github.com/pdiddy/refsys/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import CSL-JSON or CSL-YAML reference lists into the works database",
	Long: `Import parses CSL records from one or more JSON or YAML files,
normalizes their identifiers (DOI, arXiv, PubMed, ISBN), assigns each
work a stable identity, and stores the records. Duplicates within the
batch are merged unless --keep-duplicates is given; re-importing an
existing identity updates the stored record.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("keep-duplicates", false, "store duplicate records instead of merging them")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more CSL-JSON or CSL-YAML files")
	}

	keepDuplicates, _ := cmd.Flags().GetBool("keep-duplicates")

	items, err := parseAll(args)
	if err != nil {
		return err
	}

	if !keepDuplicates {
		survivors, groups := ingest.Deduplicate(items)
		for _, g := range groups {
			fmt.Fprintf(os.Stdout, "merged %d duplicate(s) of %s\n",
				len(g.Indices)-1, items[g.Indices[0]].ID)
		}
		items = survivors
	}

	db, err := store.Open(storePath(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	for _, item := range items {
		if err := db.SaveWork(ctx, item); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "imported: %-16s %s\n", item.ID, item.Title)
	}

	fmt.Fprintf(os.Stdout, "\n%d work(s) imported\n", len(items))
	return nil
}

func parseAll(paths []string) ([]*types.CSLItem, error) {
	var items []*types.CSLItem
	for _, path := range paths {
		parsed, err := ingest.ParseFile(path)
		if err != nil {
			return nil, err
		}
		items = append(items, parsed...)
	}
	return items, nil
}
