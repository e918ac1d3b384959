package composer

import (
	"fmt"
	"strings"
)

// renderMarkdown renders the document as GitHub-flavored Markdown. The
// section order, anchors, and fallback strings mirror the HTML renderer
// exactly.
func renderMarkdown(doc *frsDocument) string {
	var b strings.Builder
	p := doc.Project

	// Cover block
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	b.WriteString("Functional Requirements Specification\n\n")
	fmt.Fprintf(&b, "Version %s | %s | %s\n\n", p.Version, p.Author, p.Status)
	fmt.Fprintf(&b, "Generated %s\n\n", doc.GeneratedAt.Format("January 2, 2006"))

	// Table of contents
	b.WriteString("## Table of Contents\n\n")
	for i, t := range doc.TOC {
		fmt.Fprintf(&b, "%d. [%s](#%s)\n", i+1, t.Title, t.ID)
	}
	b.WriteString("\n")

	// Basic information
	b.WriteString("## Basic Information\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	for _, kv := range doc.BasicInfo {
		fmt.Fprintf(&b, "| %s | %s |\n", mdCell(kv.Key), mdCell(kv.Value))
	}
	b.WriteString("\n")

	// Stakeholders
	b.WriteString("## Stakeholders\n\n")
	if len(doc.Stakeholders) == 0 {
		b.WriteString(fallbackNoStakeholders + "\n\n")
	} else {
		for _, s := range doc.Stakeholders {
			fmt.Fprintf(&b, "- **%s** (%s, %s)\n", s.Name, s.Role, s.Type)
		}
		b.WriteString("\n")
	}

	// Requirements narrative
	b.WriteString("## What We Need\n\n")
	writeNarrativesMarkdown(&b, doc.Requirements)

	// Data fields
	b.WriteString("## Data Fields\n\n")
	if len(doc.DataFields) == 0 {
		b.WriteString(fallbackNoDataFields + "\n\n")
	} else {
		b.WriteString("| Field Name | Display Label | UI Control | Data Type | Required | Specifications |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, f := range doc.DataFields {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				mdCell(f.Name), mdCell(f.DisplayLabel), mdCell(f.UIControlType),
				mdCell(f.DataType), requiredLabel(f.Required), mdCell(fieldSpecifications(f)))
		}
		b.WriteString("\n")
	}

	// Features
	b.WriteString("## Features\n\n")
	if len(doc.Features) == 0 {
		b.WriteString(fallbackNoFeatures + "\n\n")
	} else {
		for i, f := range doc.Features {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, f.Title)
			fmt.Fprintf(&b, "Importance: %s | Type: %s\n\n", f.Priority, f.Type)
			fmt.Fprintf(&b, "%s\n\n", f.Description)
			if f.Specifications != "" {
				fmt.Fprintf(&b, "Details: %s\n\n", f.Specifications)
			}
		}
	}

	// Success criteria
	b.WriteString("## Success Criteria\n\n")
	writeNarrativesMarkdown(&b, doc.SuccessCriteria)

	return b.String()
}

func writeNarrativesMarkdown(b *strings.Builder, sections []narrative) {
	for _, n := range sections {
		fmt.Fprintf(b, "### %s\n\n", n.Title)
		switch {
		case n.empty():
			b.WriteString(n.Fallback + "\n\n")
		case len(n.Items) > 0:
			for _, item := range n.Items {
				fmt.Fprintf(b, "- %s\n", item)
			}
			b.WriteString("\n")
		default:
			b.WriteString(n.Text + "\n\n")
		}
	}
}

// mdCell keeps table cells on one row.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
