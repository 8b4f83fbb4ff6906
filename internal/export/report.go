package export

import (
	"embed"
	"io"
	"sync"

	"github.com/google/safehtml/template"

	"tabfilter/internal/model"
)

//go:embed templates/*
var templateFS embed.FS

// Filtered is implemented by views that can describe their active filters.
type Filtered interface {
	Selections() model.Selections
	Rows() []model.Row
}

// Report is the data behind the report template.
type Report struct {
	Filters []ReportFilter
	Headers []string
	Rows    [][]string
	Shown   int
	Total   int
}

type ReportFilter struct {
	Column string
	Value  string
}

var (
	reportOnce sync.Once
	reportTmpl *template.Template
	reportErr  error
)

func reportTemplate() (*template.Template, error) {
	reportOnce.Do(func() {
		trustedFS := template.TrustedFSFromEmbed(templateFS)
		reportTmpl, reportErr = template.New("report.html").ParseFS(trustedFS, "templates/report.html")
	})
	return reportTmpl, reportErr
}

// BuildReport collects the visible rows of v and, when v implements
// Filtered, its active filters and total row count.
func BuildReport(v View) Report {
	r := Report{Headers: v.Headers()}
	for _, i := range v.VisibleRows() {
		r.Rows = append(r.Rows, v.RowText(i))
	}
	r.Shown = len(r.Rows)
	r.Total = r.Shown
	if f, ok := v.(Filtered); ok {
		r.Total = len(f.Rows())
		sel := f.Selections()
		for _, col := range sel.Columns() {
			r.Filters = append(r.Filters, ReportFilter{Column: title(r.Headers, col), Value: sel[col]})
		}
	}
	return r
}

// ToReport writes a standalone HTML page holding only the filtered view.
func ToReport(w io.Writer, v View) error {
	t, err := reportTemplate()
	if err != nil {
		return err
	}
	return t.Execute(w, BuildReport(v))
}
