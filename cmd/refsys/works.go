package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refsys/internal/store"
)

var worksCmd = &cobra.Command{
	Use:   "works",
	Short: "List and inspect stored works",
}

var worksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored works with their consensus scores",
	RunE:  runWorksList,
}

var worksShowCmd = &cobra.Command{
	Use:   "show [work-id]",
	Short: "Print the full CSL record for one work",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksShow,
}

func init() {
	worksListCmd.Flags().Bool("json", false, "output the list as JSON")

	worksCmd.AddCommand(worksListCmd)
	worksCmd.AddCommand(worksShowCmd)
	rootCmd.AddCommand(worksCmd)
}

func runWorksList(cmd *cobra.Command, args []string) error {
	db, err := store.Open(storePath(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.ListWorks(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No works stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-6s  %-5s  %-50s  %s\n",
		"ID", "Score", "Year", "Title", "DOI")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, row := range rows {
		score := "-"
		if row.ConsensusScore != nil {
			score = fmt.Sprintf("%d", *row.ConsensusScore)
		}
		year := "-"
		if row.Year != 0 {
			year = fmt.Sprintf("%d", row.Year)
		}
		title := row.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		if row.Retracted {
			title += " [RETRACTED]"
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-6s  %-5s  %-50s  %s\n",
			row.ID, score, year, title, row.DOI)
	}

	fmt.Fprintf(os.Stdout, "\n%d work(s)\n", len(rows))
	return nil
}

func runWorksShow(cmd *cobra.Command, args []string) error {
	db, err := store.Open(storePath(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	item, err := db.GetWork(context.Background(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(item)
}
