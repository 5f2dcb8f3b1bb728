package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/importer"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

// inputFlags are the request flags shared by optimize and compare.
type inputFlags struct {
	methods         []string
	stockFile       string
	demandFile      string
	material        string
	kerf            float64
	edgeTrim        float64
	seed            int64
	timeout         time.Duration
	rejectOversized bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&f.methods, "methods", "m", nil, "methods to run (default: all)")
	flags.StringVar(&f.stockFile, "stock", "", "import stock pieces from a CSV or Excel file")
	flags.StringVar(&f.demandFile, "demand", "", "import demand pieces from a CSV, Excel or DXF file")
	flags.StringVar(&f.material, "material", "", "material assigned to demand imported from DXF")
	flags.Float64Var(&f.kerf, "kerf", 0, "blade width consumed per cut (mm)")
	flags.Float64Var(&f.edgeTrim, "edge-trim", 0, "length squared off the start of each bar (mm)")
	flags.Int64Var(&f.seed, "seed", 0, "seed for randomized methods")
	flags.DurationVar(&f.timeout, "timeout", 0, "deadline for exhaustive methods (e.g. 2s)")
	flags.BoolVar(&f.rejectOversized, "reject-oversized", false, "fail when a demand piece fits no stock piece")
}

// runInput is everything needed to start a run.
type runInput struct {
	config   model.AppConfig
	settings model.Settings
	catalog  *catalog.Catalog
	methods  []string
}

// loadInput merges the config defaults, the request file, imported lists and
// flag overrides, in that order, and validates the result into a catalog.
func (c *CLI) loadInput(cmd *cobra.Command, args []string, f *inputFlags) (runInput, error) {
	logger := loggerFromContext(cmd.Context())

	cfg, err := project.LoadAppConfig(c.configPath())
	if err != nil {
		return runInput{}, fmt.Errorf("load config: %w", err)
	}
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	var req model.Request
	if len(args) == 1 {
		req, err = project.LoadRequest(args[0])
		if err != nil {
			return runInput{}, err
		}
		logger.Debug("loaded request", "file", args[0], "stock", len(req.StockPieces), "demand", len(req.DemandPieces))
	}

	if f.stockFile != "" {
		res, err := importList(logger, f.stockFile, importer.KindStock, "")
		if err != nil {
			return runInput{}, err
		}
		for _, s := range res.Stock {
			req.StockPieces = append(req.StockPieces, model.StockInput{StockPiece: s})
		}
	}
	if f.demandFile != "" {
		res, err := importList(logger, f.demandFile, importer.KindDemand, f.material)
		if err != nil {
			return runInput{}, err
		}
		req.DemandPieces = append(req.DemandPieces, res.Demand...)
	}
	if len(req.StockPieces) == 0 && len(req.DemandPieces) == 0 {
		return runInput{}, fmt.Errorf("nothing to optimize: pass a request file or --stock and --demand")
	}

	req.Settings.Apply(&settings)
	flags := cmd.Flags()
	if flags.Changed("kerf") {
		settings.Kerf = f.kerf
	}
	if flags.Changed("edge-trim") {
		settings.EdgeTrim = f.edgeTrim
	}
	if flags.Changed("seed") {
		settings.Seed = f.seed
	}
	if flags.Changed("timeout") {
		settings.ExactTimeout = f.timeout
	}

	stock, err := c.resolveStock(req)
	if err != nil {
		return runInput{}, err
	}
	cat, err := catalog.Load(stock, req.DemandPieces, catalog.Options{RejectOversized: f.rejectOversized})
	if err != nil {
		return runInput{}, err
	}

	methods := f.methods
	if len(methods) == 0 {
		methods = req.Methods
	}
	if len(methods) == 0 {
		methods = cfg.DefaultMethods
	}
	return runInput{config: cfg, settings: settings, catalog: cat, methods: methods}, nil
}

// resolveStock expands inventory presets. The inventory is only read when
// the request references a preset.
func (c *CLI) resolveStock(req model.Request) ([]model.StockPiece, error) {
	for _, s := range req.StockPieces {
		if s.Preset == "" {
			continue
		}
		inv, err := project.LoadInventory(c.inventoryPath())
		if err != nil {
			return nil, fmt.Errorf("load inventory: %w", err)
		}
		return req.ResolveStock(&inv)
	}
	return req.ResolveStock(nil)
}

// importList imports a stock or demand file, logging its warnings. Any
// row error fails the import.
func importList(logger *log.Logger, path string, kind importer.Kind, material string) (importer.ImportResult, error) {
	var res importer.ImportResult
	if kind == importer.KindDemand && strings.EqualFold(filepath.Ext(path), ".dxf") {
		res = importer.ImportDXF(path, material)
	} else {
		res = importer.Import(path, kind)
	}
	for _, w := range res.Warnings {
		logger.Warn(w, "file", path)
	}
	if len(res.Errors) > 0 {
		return res, fmt.Errorf("import %s list %s: %s", kind, path, strings.Join(res.Errors, "; "))
	}
	logger.Debug("imported", "kind", kind.String(), "file", path, "entries", res.Count())
	return res, nil
}
