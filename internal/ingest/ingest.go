package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"tabfilter/internal/dom"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
	SourceDemo  SourceKind = "demo"
)

// DefaultMaxBytes caps how much of a document is read.
const DefaultMaxBytes int64 = 64 * 1024 * 1024

var ErrTooLarge = errors.New("document exceeds size limit")

type Options struct {
	Source   SourceKind
	Path     string
	Stdin    io.Reader // defaults to os.Stdin
	MaxBytes int64     // 0 = DefaultMaxBytes
}

// Document is a parsed HTML document and where it came from.
type Document struct {
	Root   *html.Node
	Source string
	Bytes  int64
}

// Load reads and parses the document named by opt.
func Load(ctx context.Context, opt Options) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := opt.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	switch opt.Source {
	case SourceStdin:
		r := opt.Stdin
		if r == nil {
			r = os.Stdin
		}
		return parse(ctx, r, "stdin", limit)
	case SourceFile:
		f, err := os.Open(opt.Path)
		if err != nil {
			return nil, fmt.Errorf("open document: %w", err)
		}
		defer f.Close()
		return parse(ctx, f, opt.Path, limit)
	case SourceDemo:
		return parse(ctx, strings.NewReader(DemoHTML), "demo", limit)
	default:
		return nil, fmt.Errorf("unknown source kind %q", opt.Source)
	}
}

func parse(ctx context.Context, r io.Reader, src string, limit int64) (*Document, error) {
	cr := &countingReader{r: io.LimitReader(r, limit+1)}
	root, err := dom.Parse(cr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	if cr.n > limit {
		return nil, fmt.Errorf("%s: %w (%d bytes)", src, ErrTooLarge, limit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Document{Root: root, Source: src, Bytes: cr.n}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
