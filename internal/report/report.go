// Package report renders screening decisions as Markdown and HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"edakit/domain/core"
	domain "edakit/domain/screening"
	"edakit/internal/dataprep"
	"edakit/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Report is a diagnostic summary of one recommendation run.
type Report struct {
	ID          core.ReportID             `json:"id"`
	Fingerprint core.Hash                 `json:"fingerprint,omitempty"`
	Source      string                    `json:"source,omitempty"`
	Target      string                    `json:"target,omitempty"`
	Features    []string                  `json:"features"`
	Decision    *domain.Decision          `json:"decision"`
	Imputation  *dataprep.ImputeResult    `json:"-"`
	Profiles    []profiling.ColumnProfile `json:"profiles,omitempty"`
	DataErrors  int                       `json:"data_errors"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// New creates a report for decision. features names the matrix columns;
// missing names fall back to the column index.
func New(decision *domain.Decision, features []string) *Report {
	return &Report{
		ID:          core.NewReportID(),
		Features:    features,
		Decision:    decision,
		GeneratedAt: time.Now().UTC(),
	}
}

func (r *Report) featureName(j int) string {
	if j < len(r.Features) && r.Features[j] != "" {
		return r.Features[j]
	}
	return fmt.Sprintf("feature_%d", j)
}

func (r *Report) names(indices []int) string {
	if len(indices) == 0 {
		return "none"
	}
	out := make([]string, len(indices))
	for i, j := range indices {
		out[i] = "`" + r.featureName(j) + "`"
	}
	return strings.Join(out, ", ")
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	d := r.Decision
	var b strings.Builder

	b.WriteString("# Feature screening report\n\n")
	fmt.Fprintf(&b, "Report `%s`, generated %s.\n\n", r.ID, r.GeneratedAt.Format(time.RFC3339))
	if !r.Fingerprint.IsEmpty() {
		fmt.Fprintf(&b, "Dataset fingerprint: `%s`\n\n", r.Fingerprint.Short())
	}
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`", r.Source)
		if r.Target != "" {
			fmt.Fprintf(&b, ", target `%s`", r.Target)
		}
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "## Recommendation: %s\n\n", d.Recommendation.Label())
	b.WriteString("| Measure | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Samples | %d |\n", d.Samples)
	fmt.Fprintf(&b, "| Features | %d |\n", d.Features)
	fmt.Fprintf(&b, "| Ratio score | %.2f |\n", d.RatioScore)
	fmt.Fprintf(&b, "| Distribution bonus | %.2f |\n", d.DistributionBonus)
	fmt.Fprintf(&b, "| Score | %.3f |\n", d.Score)
	fmt.Fprintf(&b, "| Threshold | %.3f |\n\n", d.Threshold)

	b.WriteString("## Categories\n\n")
	fmt.Fprintf(&b, "- Linearly separable (LR): %s\n", r.names(d.Scan.LR))
	fmt.Fprintf(&b, "- Usable by random forest (RF): %s\n", r.names(d.Scan.RF))
	fmt.Fprintf(&b, "- Half separable: %s\n", r.names(d.Scan.Half))
	fmt.Fprintf(&b, "- Internally separable: %s\n\n", r.names(d.Scan.Internal))

	if len(d.Verdicts) > 0 {
		b.WriteString("## Feature verdicts\n\n")
		b.WriteString("| Feature | Tails | External | Internal |\n|---|---|---|---|\n")
		for _, v := range d.Verdicts {
			ext := "no"
			if v.External.Separable {
				ext = "yes"
			} else if v.External.Fallback {
				ext = "no (empty tail)"
			}
			in := "-"
			if v.Internal != nil {
				in = fmt.Sprintf("class %s: no", v.Internal.Target)
				if v.Internal.Separable {
					in = fmt.Sprintf("class %s at %.2f", v.Internal.Target, v.Internal.Trigger)
				}
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.featureName(v.Feature), v.External.Descriptor, ext, in)
		}
		b.WriteString("\n")
	}

	if len(r.Profiles) > 0 {
		b.WriteString("## Column profiles\n\n")
		b.WriteString("| Column | Observed | Missing | Mean | Std | Median | Skew | Outliers |\n|---|---|---|---|---|---|---|---|\n")
		for _, p := range r.Profiles {
			fmt.Fprintf(&b, "| %s | %d | %.0f%% | %.4g | %.4g | %.4g | %.2f | %d |\n",
				p.Name, p.Count, 100*p.MissingFraction(), p.Mean, p.StdDev, p.Median, p.Skewness, p.Outliers)
		}
		b.WriteString("\n")
	}

	if imp := r.Imputation; imp != nil {
		b.WriteString("## Imputation\n\n")
		if len(imp.Dropped) > 0 {
			fmt.Fprintf(&b, "Dropped columns: %s\n\n", strings.Join(imp.Dropped, ", "))
		}
		if len(imp.Medians) > 0 {
			b.WriteString("| Column | Median fill |\n|---|---|\n")
			for _, name := range imp.Table.Columns {
				if m, ok := imp.Medians[name]; ok {
					fmt.Fprintf(&b, "| %s | %.4g |\n", name, m)
				}
			}
			b.WriteString("\n")
		}
	}
	if r.DataErrors > 0 {
		fmt.Fprintf(&b, "%d cells could not be parsed and were treated as missing.\n", r.DataErrors)
	}

	return b.String()
}

// HTML renders the report as a standalone HTML page.
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Feature screening report " + r.ID.String(),
	})
	return markdown.ToHTML([]byte(r.Markdown()), p, renderer)
}
