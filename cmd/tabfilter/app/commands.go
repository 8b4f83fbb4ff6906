// Package app provides the command tree of the tabfilter binary.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tabfilter/internal/config"
	"tabfilter/internal/export"
	"tabfilter/internal/ingest"
	"tabfilter/internal/metrics"
	"tabfilter/internal/ui"
	"tabfilter/internal/util/logx"
	"tabfilter/internal/version"
	"tabfilter/internal/widget"
)

// NewRootCmd creates the root command with its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tabfilter [file]",
		Short: "Per-column filters for HTML tables",
		Long: `tabfilter attaches a drop-down filter to every column of an HTML table and
shows the filtered rows in the terminal. The document is read from the file
argument, from piped stdin (or "-"), or a built-in demo is shown.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runUI,
	}
	config.AddFlags(root.PersistentFlags())
	config.AddExportFlags(root.Flags(), config.KeyExport, "", false)

	root.AddCommand(newExportCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Apply selections and write the filtered table",
		Long: `export attaches the filter widget, applies every --select in order as if the
user had picked it, then writes the result. An empty VALUE clears the column.`,
		Example: `  tabfilter export staff.html --select 1=Platform --select 2=Berlin --format table
  curl -s https://example.com/report | tabfilter export --selector '#totals' --format csv`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runExport,
	}
	config.AddExportFlags(cmd.Flags(), "format", string(export.FormatHTML), true)
	return cmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			if format == "json" {
				out, err := json.MarshalIndent(version.GetInfo(), "", "  ")
				if err != nil {
					return fmt.Errorf("format version info: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "tabfilter", version.String())
			return err
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.RequireOut(); err != nil {
		return err
	}
	doc, w, rec, err := open(cmd, cfg)
	if err != nil {
		return err
	}
	logx.Infof("starting tabfilter %s: %s", version.String(), cfg.String())
	if err := ui.Run(cmd.Context(), cfg, w, doc.Root, doc.Source); err != nil {
		logx.Errorf("tabfilter exited with error: %v", err)
		return err
	}
	return writeMetrics(rec, cfg)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	doc, w, rec, err := open(cmd, cfg)
	if err != nil {
		return err
	}
	for _, s := range cfg.Selects {
		c := widget.Change{Column: s.Column, Value: s.Value}
		if s.Value == "" {
			c = w.Reset(s.Column)
		}
		if err := w.Dispatch(c); err != nil {
			return fmt.Errorf("--select %d=%s: %w", s.Column, s.Value, err)
		}
	}
	if cfg.ExportOut == "" {
		if err := export.Write(cmd.OutOrStdout(), cfg.ExportFormat, doc.Root, w); err != nil {
			return err
		}
		return writeMetrics(rec, cfg)
	}
	if err := export.ToFile(cfg.ExportOut, cfg.ExportFormat, doc.Root, w); err != nil {
		return err
	}
	logx.Infof("export: wrote %s", cfg.ExportOut)
	return writeMetrics(rec, cfg)
}

func writeMetrics(rec *metrics.Recorder, cfg *config.Config) error {
	if rec == nil {
		return nil
	}
	if err := rec.WriteFile(cfg.MetricsOut); err != nil {
		return err
	}
	logx.Debugf("metrics: wrote %s", cfg.MetricsOut)
	return nil
}

func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v, args, stdinPiped(cmd))
	if err != nil {
		return nil, err
	}
	if l, ok := logx.ParseLevel(cfg.LogLevel); ok {
		logx.SetLevel(l)
	}
	return cfg, nil
}

// open loads the document and attaches the widget to it. The recorder is nil
// unless --metrics-out is set.
func open(cmd *cobra.Command, cfg *config.Config) (*ingest.Document, *widget.Widget, *metrics.Recorder, error) {
	opt := ingest.Options{Source: ingest.SourceDemo}
	switch {
	case cfg.UseStdin:
		opt = ingest.Options{Source: ingest.SourceStdin, Stdin: cmd.InOrStdin()}
	case cfg.FilePath != "":
		opt = ingest.Options{Source: ingest.SourceFile, Path: cfg.FilePath}
	}
	doc, err := ingest.Load(cmd.Context(), opt)
	if err != nil {
		return nil, nil, nil, err
	}
	logx.Debugf("loaded %s (%d bytes)", doc.Source, doc.Bytes)
	w, err := widget.Attach(doc.Root, cfg.Selector, cfg.Widget)
	if err != nil {
		return nil, nil, nil, err
	}
	var rec *metrics.Recorder
	if cfg.MetricsOut != "" {
		rec = metrics.New(cfg.Selector)
		rec.Watch(w)
	}
	return doc, w, rec, nil
}

// stdinPiped treats a replaced input stream as piped.
func stdinPiped(cmd *cobra.Command) bool {
	if in := cmd.InOrStdin(); in != io.Reader(os.Stdin) {
		return true
	}
	return config.StdinPiped()
}
