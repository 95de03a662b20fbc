// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders references, in-text citations, and BibTeX
// exports from CSL records. APA 7 and IEEE styles are supported.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/refsys/pkg/types"
)

// Style selects the citation style.
type Style string

const (
	StyleAPA  Style = "apa"
	StyleIEEE Style = "ieee"
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case StyleAPA:
		return StyleAPA, nil
	case StyleIEEE:
		return StyleIEEE, nil
	default:
		return "", fmt.Errorf("unsupported style: %s (use %q or %q)", s, StyleAPA, StyleIEEE)
	}
}

// APA lists up to 20 authors before eliding; IEEE truncates at 6 with
// "et al.".
const (
	maxAuthorsAPA  = 20
	maxAuthorsIEEE = 6
)

// FormatAuthors renders an author list in the given style.
func FormatAuthors(style Style, authors []types.CSLName) string {
	if len(authors) == 0 {
		return ""
	}
	if style == StyleIEEE {
		return formatAuthorsIEEE(authors)
	}
	return formatAuthorsAPA(authors)
}

func formatAuthorsAPA(authors []types.CSLName) string {
	formatted := make([]string, 0, len(authors))
	for i, a := range authors {
		if i >= maxAuthorsAPA {
			break
		}
		formatted = append(formatted, apaName(a))
	}
	if len(authors) > maxAuthorsAPA {
		formatted = append(formatted, "... "+apaName(authors[len(authors)-1]))
	}

	switch len(formatted) {
	case 1:
		return formatted[0]
	case 2:
		return formatted[0] + ", & " + formatted[1]
	default:
		return strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1]
	}
}

// apaName renders "Family, G. S." with initials from the given names.
func apaName(a types.CSLName) string {
	if a.Literal != "" {
		return a.Literal
	}
	var parts []string
	if a.Family != "" {
		parts = append(parts, a.Family)
	}
	if a.Given != "" {
		var initials strings.Builder
		for _, name := range strings.Fields(a.Given) {
			initials.WriteString(name[:1] + ".")
		}
		parts = append(parts, initials.String())
	}
	return strings.Join(parts, ", ")
}

func formatAuthorsIEEE(authors []types.CSLName) string {
	formatted := make([]string, 0, len(authors))
	for i, a := range authors {
		if i >= maxAuthorsIEEE {
			break
		}
		if a.Literal != "" {
			formatted = append(formatted, a.Literal)
			continue
		}
		var parts []string
		if a.Given != "" {
			var initials []string
			for _, name := range strings.Fields(a.Given) {
				initials = append(initials, name[:1])
			}
			parts = append(parts, strings.Join(initials, ". ")+".")
		}
		if a.Family != "" {
			parts = append(parts, a.Family)
		}
		formatted = append(formatted, strings.Join(parts, " "))
	}
	if len(authors) > maxAuthorsIEEE {
		formatted = append(formatted, "et al.")
	}
	return strings.Join(formatted, ", ")
}

// Reference renders one full reference-list entry.
func Reference(style Style, item *types.CSLItem) string {
	if style == StyleIEEE {
		return referenceIEEE(item)
	}
	return referenceAPA(item)
}

// italicized monograph types (APA italicizes the title itself).
func isMonograph(cslType string) bool {
	return cslType == "book" || cslType == "report"
}

func referenceAPA(item *types.CSLItem) string {
	var parts []string

	if len(item.Author) > 0 {
		parts = append(parts, FormatAuthors(StyleAPA, item.Author))
	}

	if year := item.Year(); year != 0 {
		parts = append(parts, fmt.Sprintf("(%d)", year))
	} else {
		parts = append(parts, "(n.d.)")
	}

	if item.Title != "" {
		if isMonograph(item.Type) {
			parts = append(parts, "*"+item.Title+"*")
		} else {
			parts = append(parts, item.Title)
		}
	}

	if item.ContainerTitle != "" {
		container := []string{"*" + item.ContainerTitle + "*"}
		if item.Volume != "" {
			vol := "*" + item.Volume + "*"
			if item.Issue != "" {
				vol += "(" + item.Issue + ")"
			}
			container = append(container, vol)
		}
		if item.Page != "" {
			container = append(container, item.Page)
		}
		parts = append(parts, strings.Join(container, ", "))
	}

	if item.DOI != "" {
		parts = append(parts, "https://doi.org/"+item.DOI)
	} else if item.URL != "" {
		parts = append(parts, item.URL)
	}

	return strings.Join(parts, ". ") + "."
}

func referenceIEEE(item *types.CSLItem) string {
	var parts []string

	if len(item.Author) > 0 {
		parts = append(parts, FormatAuthors(StyleIEEE, item.Author)+",")
	}

	if item.Title != "" {
		if isMonograph(item.Type) {
			parts = append(parts, "*"+item.Title+"*.")
		} else {
			parts = append(parts, `"`+item.Title+`,"`)
		}
	}

	if item.ContainerTitle != "" {
		parts = append(parts, "*"+item.ContainerTitle+"*,")
		if item.Volume != "" {
			parts = append(parts, "vol. "+item.Volume+",")
		}
		if item.Issue != "" {
			parts = append(parts, "no. "+item.Issue+",")
		}
		if item.Page != "" {
			parts = append(parts, "pp. "+item.Page+",")
		}
	}

	if year := item.Year(); year != 0 {
		parts = append(parts, fmt.Sprintf("%d.", year))
	}

	if item.DOI != "" {
		parts = append(parts, "doi: "+item.DOI)
	} else if item.URL != "" {
		parts = append(parts, "[Online]. Available: "+item.URL)
	}

	return strings.Join(parts, " ")
}

// Bibliography renders a full reference list. APA entries are sorted by
// first-author family then year; IEEE keeps citation order and numbers
// each entry.
func Bibliography(style Style, items []*types.CSLItem) string {
	if style == StyleAPA {
		sorted := make([]*types.CSLItem, len(items))
		copy(sorted, items)
		sort.SliceStable(sorted, func(i, j int) bool {
			fi := strings.ToLower(sorted[i].FirstAuthorFamily())
			fj := strings.ToLower(sorted[j].FirstAuthorFamily())
			if fi != fj {
				return fi < fj
			}
			return sortYear(sorted[i]) < sortYear(sorted[j])
		})
		items = sorted
	}

	lines := make([]string, 0, len(items))
	for i, item := range items {
		ref := Reference(style, item)
		if style == StyleIEEE {
			ref = fmt.Sprintf("[%d] %s", i+1, ref)
		}
		lines = append(lines, ref)
	}
	return strings.Join(lines, "\n\n")
}

// Undated works sort after everything else.
func sortYear(item *types.CSLItem) int {
	if y := item.Year(); y != 0 {
		return y
	}
	return 9999
}

// CiteAPA renders an author-year in-text citation, optionally with a
// page locator.
func CiteAPA(item *types.CSLItem, page string) string {
	var authorPart string
	switch n := len(item.Author); {
	case n == 0:
		authorPart = "Unknown"
	case n == 1:
		authorPart = item.Author[0].Family
		if authorPart == "" {
			authorPart = "Unknown"
		}
	case n == 2:
		authorPart = item.Author[0].Family + " & " + item.Author[1].Family
	default:
		authorPart = item.Author[0].Family + " et al."
	}

	yearPart := "n.d."
	if year := item.Year(); year != 0 {
		yearPart = fmt.Sprintf("%d", year)
	}

	if page != "" {
		return fmt.Sprintf("(%s, %s, p. %s)", authorPart, yearPart, page)
	}
	return fmt.Sprintf("(%s, %s)", authorPart, yearPart)
}

// CiteIEEE renders a numeric in-text citation. Zero means the number is
// not yet assigned.
func CiteIEEE(number int) string {
	if number > 0 {
		return fmt.Sprintf("[%d]", number)
	}
	return "[?]"
}

// bibtexTypes maps CSL record types onto BibTeX entry types.
var bibtexTypes = map[string]string{
	"article-journal":  "article",
	"paper-conference": "inproceedings",
	"chapter":          "inbook",
	"book":             "book",
	"report":           "techreport",
	"thesis":           "phdthesis",
	"manuscript":       "unpublished",
}

// ExportBibTeX renders the records as a BibTeX database, keyed by the
// record IDs.
func ExportBibTeX(items []*types.CSLItem) string {
	entries := make([]string, 0, len(items))
	for _, item := range items {
		entryType := bibtexTypes[item.Type]
		if entryType == "" {
			entryType = "misc"
		}

		var fields []string
		addField := func(name, value string) {
			if value != "" {
				fields = append(fields, fmt.Sprintf("  %s = {%s}", name, value))
			}
		}

		addField("author", bibtexAuthors(item.Author))
		addField("title", item.Title)
		switch item.Type {
		case "article-journal":
			addField("journal", item.ContainerTitle)
		case "book":
			addField("booktitle", item.ContainerTitle)
		}
		if year := item.Year(); year != 0 {
			addField("year", fmt.Sprintf("%d", year))
		}
		addField("volume", item.Volume)
		addField("number", item.Issue)
		addField("pages", item.Page)
		addField("doi", item.DOI)
		addField("url", item.URL)

		entries = append(entries,
			fmt.Sprintf("@%s{%s,\n%s\n}", entryType, item.ID, strings.Join(fields, ",\n")))
	}
	return strings.Join(entries, "\n\n")
}

func bibtexAuthors(authors []types.CSLName) string {
	if len(authors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		switch {
		case a.Family != "" && a.Given != "":
			parts = append(parts, a.Family+", "+a.Given)
		case a.Family != "":
			parts = append(parts, a.Family)
		case a.Given != "":
			parts = append(parts, a.Given)
		default:
			parts = append(parts, a.Literal)
		}
	}
	return strings.Join(parts, " and ")
}
