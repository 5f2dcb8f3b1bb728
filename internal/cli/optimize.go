package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/export"
	"github.com/piwi3910/BarCut/internal/gcode"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
	"github.com/piwi3910/BarCut/internal/report"
)

type optimizeFlags struct {
	inputFlags
	format  string
	pdf     string
	labels  string
	dxf     string
	xlsx    string
	gcode   string
	profile string
	history bool
}

// optimizeCommand creates the optimize command.
func (c *CLI) optimizeCommand() *cobra.Command {
	var f optimizeFlags

	cmd := &cobra.Command{
		Use:   "optimize [request]",
		Short: "Run the cutting methods and print the results table",
		Long: `Run every selected cutting method on a request and print one row per
opened bar, per unmet demand piece and per method.

The request is a JSON or YAML file with stockPieces, demandPieces and
optional methods and settings. Stock and demand lists can also be imported
from CSV or Excel files with --stock and --demand.`,
		Example: `  # Run all methods on a request
  barcut optimize job.yaml

  # Import lists and run two methods
  barcut optimize --stock bars.csv --demand cuts.xlsx -m greedy,exact

  # Write the cutting plan as PDF and print JSON
  barcut optimize job.json --format json --pdf plan.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd, args, &f)
		},
	}

	f.inputFlags.register(cmd)
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: table, csv or json (default from config)")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "write a PDF cutting plan to this file")
	cmd.Flags().StringVar(&f.labels, "labels", "", "write QR cut labels of the best result to this PDF file")
	cmd.Flags().StringVar(&f.dxf, "dxf", "", "write the bars of the best result to this DXF file")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write the results workbook to this Excel file")
	cmd.Flags().StringVar(&f.gcode, "gcode", "", "write a saw program for the best result to this file")
	cmd.Flags().StringVar(&f.profile, "gcode-profile", "Generic", "saw controller dialect: "+strings.Join(gcode.ProfileNames(), ", "))
	cmd.Flags().BoolVar(&f.history, "history", false, "record the run in the optimization history")

	return cmd
}

func (c *CLI) runOptimize(cmd *cobra.Command, args []string, f *optimizeFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	in, err := c.loadInput(cmd, args, &f.inputFlags)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	opt := engine.New(in.settings, engine.WithLogger(logger))
	rep, err := opt.Run(ctx, in.catalog, in.methods)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ran %d method(s), best %s", len(rep.Methods), rep.Best))

	format := f.format
	if format == "" {
		format = in.config.OutputFormat
	}
	if err := writeReport(cmd.OutOrStdout(), rep, format); err != nil {
		return err
	}

	if err := c.writeExports(rep, in.settings, f); err != nil {
		return err
	}

	if f.history || in.config.HistoryEnabled {
		hist, err := project.LoadHistory(c.historyPath(), in.config.HistoryLimit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		hist.Add(project.EntryFromReport(rep))
		if err := project.SaveHistory(c.historyPath(), hist); err != nil {
			return fmt.Errorf("save history: %w", err)
		}
		logger.Debug("recorded history entry", "id", rep.ID)
	}
	return nil
}

// writeReport prints the report in the requested format.
func writeReport(w io.Writer, rep *model.ComparisonReport, format string) error {
	switch format {
	case "", "table":
		tbl := report.Render(rep)
		fmt.Fprintln(w, report.RenderTerminal(tbl))
		best, ok := rep.BestResult()
		if !ok {
			return nil
		}
		printTitle(w, "Best: %s", rep.Best)
		for _, line := range report.StockBreakdown(best) {
			printDetail(w, "%s", line)
		}
		if n := len(best.Offcuts); n > 0 {
			printInfo(w, "%d reusable offcut(s), %.0f mm total", n, model.TotalOffcutLength(best.Offcuts))
		}
		if best.Cost() > 0 {
			printInfo(w, "Stock cost: %.2f", best.Cost())
		}
		if best.UnmetCount() > 0 {
			printWarning(w, "%d demand piece(s) could not be cut", best.UnmetCount())
		}
		return nil
	case "csv":
		return report.WriteCSV(w, report.Render(rep))
	case "json":
		return report.WriteJSON(w, rep)
	default:
		return fmt.Errorf("unknown format %q (available: table, csv, json)", format)
	}
}

func (c *CLI) writeExports(rep *model.ComparisonReport, settings model.Settings, f *optimizeFlags) error {
	best, _ := rep.BestResult()
	exports := []struct {
		path  string
		what  string
		write func(string) error
	}{
		{f.pdf, "PDF", func(p string) error { return export.ExportPDF(p, rep, settings) }},
		{f.labels, "labels", func(p string) error { return export.ExportLabels(p, best) }},
		{f.dxf, "DXF", func(p string) error { return export.ExportDXF(p, best) }},
		{f.xlsx, "Excel", func(p string) error { return export.ExportExcel(p, rep) }},
		{f.gcode, "saw program", func(p string) error { return writeSawProgram(p, best, f.profile) }},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.write(e.path); err != nil {
			return fmt.Errorf("export %s: %w", e.what, err)
		}
		printFile(c.errOut, e.path)
	}
	return nil
}

func writeSawProgram(path string, best model.OptimizationResult, profile string) error {
	if len(best.Placements) == 0 {
		return fmt.Errorf("no placements to cut")
	}
	s := gcode.DefaultSettings()
	s.Profile = profile
	return os.WriteFile(path, []byte(gcode.New(s).Generate(best)), 0644)
}
