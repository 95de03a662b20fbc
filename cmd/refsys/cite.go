package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refsys/internal/format"
	"github.com/pdiddy/refsys/internal/store"
	"github.com/pdiddy/refsys/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite [work-ids...]",
	Short: "Render formatted references for stored works",
	Long: `Cite renders stored works as a formatted reference list. Supported
styles are APA 7 (author-year, alphabetized) and IEEE (numbered, in
citation order). Use --bibtex to export a BibTeX database instead, or
--intext to print in-text citations.

With no arguments the whole reference list is rendered.`,
	RunE: runCite,
}

func init() {
	citeCmd.Flags().String("style", "apa", "citation style: apa or ieee")
	citeCmd.Flags().Bool("bibtex", false, "export BibTeX instead of a formatted list")
	citeCmd.Flags().Bool("intext", false, "print in-text citations instead of full references")
	citeCmd.Flags().String("page", "", "page locator for in-text citations")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	db, err := store.Open(storePath(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := selectWorks(context.Background(), db, args)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "No works to cite.")
		return nil
	}

	if bibtex, _ := cmd.Flags().GetBool("bibtex"); bibtex {
		fmt.Fprintln(os.Stdout, format.ExportBibTeX(items))
		return nil
	}

	styleName, _ := cmd.Flags().GetString("style")
	style, err := format.ParseStyle(styleName)
	if err != nil {
		return err
	}

	if intext, _ := cmd.Flags().GetBool("intext"); intext {
		page, _ := cmd.Flags().GetString("page")
		printInText(style, items, page)
		return nil
	}

	fmt.Fprintln(os.Stdout, format.Bibliography(style, items))
	return nil
}

func printInText(style format.Style, items []*types.CSLItem, page string) {
	for i, item := range items {
		var cite string
		if style == format.StyleIEEE {
			cite = format.CiteIEEE(i + 1)
		} else {
			cite = format.CiteAPA(item, page)
		}
		fmt.Fprintf(os.Stdout, "%-16s %s\n", item.ID, cite)
	}
}
