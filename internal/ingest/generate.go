package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
	"math/rand"
)

// GenSpec describes a synthetic table document.
type GenSpec struct {
	Rows        int
	Columns     int
	Cardinality int   // distinct values per column
	Sections    int   // number of <tbody> sections, at least 1
	ShortEvery  int   // every n-th row drops its last cell; 0 = never
	Seed        int64 // 0 = fixed default
}

var ErrBadGenSpec = errors.New("invalid generator spec")

func (g GenSpec) validate() error {
	switch {
	case g.Rows < 0:
		return fmt.Errorf("%w: rows %d", ErrBadGenSpec, g.Rows)
	case g.Columns < 1:
		return fmt.Errorf("%w: columns %d", ErrBadGenSpec, g.Columns)
	case g.Cardinality < 1:
		return fmt.Errorf("%w: cardinality %d", ErrBadGenSpec, g.Cardinality)
	}
	return nil
}

// Generate writes an HTML document holding one table with id "generated".
// Cell values of column c are drawn from "c<c>-v<k>", k < Cardinality.
func Generate(w io.Writer, g GenSpec) error {
	if err := g.validate(); err != nil {
		return err
	}
	seed := g.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	sections := g.Sections
	if sections < 1 {
		sections = 1
	}
	perSection := (g.Rows + sections - 1) / sections
	if perSection == 0 {
		perSection = 1
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<!DOCTYPE html>\n<html>\n<body>\n<table id=\"generated\">\n<thead><tr>")
	for c := 0; c < g.Columns; c++ {
		fmt.Fprintf(bw, "<th>%s</th>", html.EscapeString(fmt.Sprintf("Column %d", c)))
	}
	fmt.Fprint(bw, "</tr></thead>\n")
	for r := 0; r < g.Rows; r++ {
		if r%perSection == 0 {
			if r > 0 {
				fmt.Fprint(bw, "</tbody>\n")
			}
			fmt.Fprint(bw, "<tbody>\n")
		}
		cells := g.Columns
		if g.ShortEvery > 0 && (r+1)%g.ShortEvery == 0 {
			cells--
		}
		fmt.Fprint(bw, "<tr>")
		for c := 0; c < cells; c++ {
			fmt.Fprintf(bw, "<td>c%d-v%d</td>", c, rng.Intn(g.Cardinality))
		}
		fmt.Fprint(bw, "</tr>\n")
	}
	if g.Rows > 0 {
		fmt.Fprint(bw, "</tbody>\n")
	}
	fmt.Fprint(bw, "</table>\n</body>\n</html>\n")
	return bw.Flush()
}
