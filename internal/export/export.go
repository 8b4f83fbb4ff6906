package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/net/html"

	"tabfilter/internal/dom"
)

// View is the filtered table as seen by an exporter.
type View interface {
	Headers() []string
	VisibleRows() []int
	RowText(i int) []string
}

type Format string

const (
	FormatHTML   Format = "html"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatTable  Format = "table"
	FormatReport Format = "report"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts html, csv, json (alias ndjson), table and report.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatCSV, FormatJSON, FormatTable, FormatReport:
		return f, nil
	case "ndjson":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ToHTML renders the whole document, filter controls included.
func ToHTML(w io.Writer, doc *html.Node) error {
	bw := bufio.NewWriter(w)
	if err := dom.Render(bw, doc); err != nil {
		return err
	}
	return bw.Flush()
}

func ToCSV(w io.Writer, v View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(v.Headers()); err != nil {
		return err
	}
	for _, i := range v.VisibleRows() {
		if err := cw.Write(v.RowText(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type record struct {
	Row   int               `json:"row"`
	Cells map[string]string `json:"cells"`
}

// ToNDJSON writes one object per visible row keyed by column title.
func ToNDJSON(w io.Writer, v View) error {
	bw := bufio.NewWriter(w)
	headers := v.Headers()
	for _, i := range v.VisibleRows() {
		rec := record{Row: i, Cells: map[string]string{}}
		for c, text := range v.RowText(i) {
			rec.Cells[title(headers, c)] = text
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ToTable draws the visible rows as a text table.
func ToTable(w io.Writer, v View) error {
	table := tablewriter.NewWriter(w)
	table.Header(v.Headers())
	for _, i := range v.VisibleRows() {
		if err := table.Append(v.RowText(i)); err != nil {
			return err
		}
	}
	return table.Render()
}

var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// ToFile writes the export in format to path. An empty path writes to stdout.
// A failure to close the file is returned when the write itself succeeded.
func ToFile(path string, format Format, doc *html.Node, v View) error {
	if path == "" {
		return Write(os.Stdout, format, doc, v)
	}
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, format, doc, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func Write(out io.Writer, format Format, doc *html.Node, v View) error {
	switch format {
	case FormatHTML:
		return ToHTML(out, doc)
	case FormatCSV:
		return ToCSV(out, v)
	case FormatJSON:
		return ToNDJSON(out, v)
	case FormatTable:
		return ToTable(out, v)
	case FormatReport:
		return ToReport(out, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// title keeps duplicate or missing headers distinct.
func title(headers []string, c int) string {
	if c >= len(headers) || headers[c] == "" {
		return fmt.Sprintf("column %d", c)
	}
	h := headers[c]
	for p := 0; p < c; p++ {
		if headers[p] == h {
			return fmt.Sprintf("%s (%d)", h, c)
		}
	}
	return h
}
