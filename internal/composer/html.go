package composer

import (
	"fmt"
	"html"
	"strings"
)

// renderHTML renders the document as a standalone HTML page. The same
// output backs the Word format, which only changes MIME type and file
// extension.
func renderHTML(doc *frsDocument) string {
	var b strings.Builder
	p := doc.Project

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s - Functional Requirements Specification</title>\n", esc(p.Title))
	b.WriteString(`<style>
body { font-family: Georgia, serif; max-width: 860px; margin: 0 auto; padding: 2rem; color: #1a1a1a; }
h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.5rem 0.75rem; text-align: left; }
th { background: #f3f3f3; }
.cover { text-align: center; margin-bottom: 3rem; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 0.75rem 1rem; margin: 0.75rem 0; }
.meta { color: #666; font-size: 0.9rem; }
.fallback { color: #888; font-style: italic; }
</style>
`)
	b.WriteString("</head>\n<body>\n")

	// Cover block
	b.WriteString("<div class=\"cover\">\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", esc(p.Title))
	b.WriteString("<p>Functional Requirements Specification</p>\n")
	fmt.Fprintf(&b, "<p class=\"meta\">Version %s &middot; %s &middot; %s</p>\n", esc(p.Version), esc(p.Author), esc(p.Status))
	fmt.Fprintf(&b, "<p class=\"meta\">Generated %s</p>\n", doc.GeneratedAt.Format("January 2, 2006"))
	b.WriteString("</div>\n")

	// Table of contents
	b.WriteString("<h2>Table of Contents</h2>\n<ol>\n")
	for _, t := range doc.TOC {
		fmt.Fprintf(&b, "<li><a href=\"#%s\">%s</a></li>\n", t.ID, esc(t.Title))
	}
	b.WriteString("</ol>\n")

	// Basic information
	b.WriteString("<h2 id=\"basic-info\">Basic Information</h2>\n<table>\n")
	for _, kv := range doc.BasicInfo {
		fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td></tr>\n", esc(kv.Key), esc(kv.Value))
	}
	b.WriteString("</table>\n")

	// Stakeholders
	b.WriteString("<h2 id=\"stakeholders\">Stakeholders</h2>\n")
	if len(doc.Stakeholders) == 0 {
		fmt.Fprintf(&b, "<p class=\"fallback\">%s</p>\n", fallbackNoStakeholders)
	} else {
		for _, s := range doc.Stakeholders {
			b.WriteString("<div class=\"card\">\n")
			fmt.Fprintf(&b, "<strong>%s</strong>\n", esc(s.Name))
			fmt.Fprintf(&b, "<p class=\"meta\">%s &middot; %s</p>\n", esc(s.Role), esc(s.Type))
			b.WriteString("</div>\n")
		}
	}

	// Requirements narrative
	b.WriteString("<h2 id=\"what-we-need\">What We Need</h2>\n")
	writeNarrativesHTML(&b, doc.Requirements)

	// Data fields
	b.WriteString("<h2 id=\"data-fields\">Data Fields</h2>\n")
	if len(doc.DataFields) == 0 {
		fmt.Fprintf(&b, "<p class=\"fallback\">%s</p>\n", fallbackNoDataFields)
	} else {
		b.WriteString("<table>\n<tr><th>Field Name</th><th>Display Label</th><th>UI Control</th><th>Data Type</th><th>Required</th><th>Specifications</th></tr>\n")
		for _, f := range doc.DataFields {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				esc(f.Name), esc(f.DisplayLabel), esc(f.UIControlType), esc(f.DataType),
				requiredLabel(f.Required), esc(fieldSpecifications(f)))
		}
		b.WriteString("</table>\n")
	}

	// Features
	b.WriteString("<h2 id=\"features\">Features</h2>\n")
	if len(doc.Features) == 0 {
		fmt.Fprintf(&b, "<p class=\"fallback\">%s</p>\n", fallbackNoFeatures)
	} else {
		for i, f := range doc.Features {
			b.WriteString("<div class=\"card\">\n")
			fmt.Fprintf(&b, "<h3>%d. %s</h3>\n", i+1, esc(f.Title))
			fmt.Fprintf(&b, "<p class=\"meta\">Importance: %s &middot; Type: %s</p>\n", esc(f.Priority), esc(f.Type))
			fmt.Fprintf(&b, "<p>%s</p>\n", esc(f.Description))
			if f.Specifications != "" {
				fmt.Fprintf(&b, "<p><em>Details:</em> %s</p>\n", esc(f.Specifications))
			}
			b.WriteString("</div>\n")
		}
	}

	// Success criteria
	b.WriteString("<h2 id=\"success-criteria\">Success Criteria</h2>\n")
	writeNarrativesHTML(&b, doc.SuccessCriteria)

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeNarrativesHTML(b *strings.Builder, sections []narrative) {
	for _, n := range sections {
		fmt.Fprintf(b, "<h3>%s</h3>\n", esc(n.Title))
		switch {
		case n.empty():
			fmt.Fprintf(b, "<p class=\"fallback\">%s</p>\n", n.Fallback)
		case len(n.Items) > 0:
			b.WriteString("<ul>\n")
			for _, item := range n.Items {
				fmt.Fprintf(b, "<li>%s</li>\n", esc(item))
			}
			b.WriteString("</ul>\n")
		default:
			fmt.Fprintf(b, "<p>%s</p>\n", esc(n.Text))
		}
	}
}

func esc(s string) string {
	return html.EscapeString(s)
}
