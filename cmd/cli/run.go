package main

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"consensus-market/internal/analysis"
	"consensus-market/internal/bidding"
	"consensus-market/internal/config"
	"consensus-market/internal/data"
	"consensus-market/internal/logging"
	"consensus-market/internal/market"
	"consensus-market/internal/model"
	"consensus-market/internal/sweep"
	"consensus-market/internal/wire"

	"github.com/urfave/cli/v2"
	"github.com/zeromicro/go-zero/core/logx"
)

// sweepConfig loads --config when given, otherwise starts from defaults, and
// then applies command-line overrides.
func sweepConfig(ctx *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadUnchecked(path); err != nil {
			return nil, err
		}
	} else {
		cfg = &config.Config{}
	}

	if b := ctx.String("buildings"); b != "" {
		cfg.BuildingsFile = b
	}
	cfg.RemoteFiles = append(cfg.RemoteFiles, ctx.StringSlice("remote")...)
	if ctx.IsSet("policy") {
		cfg.Market.MonotonicPolicy = ctx.String("policy")
	}
	if ctx.IsSet("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = ctx.String("log-level")
	}
	cfg.ApplyDefaults()
	// IsSet rather than MergeSweep: an explicit 0 is a valid value.
	if ctx.IsSet("start") {
		cfg.Sweep.Start = ctx.Float64("start")
	}
	if ctx.IsSet("stop") {
		cfg.Sweep.Stop = ctx.Float64("stop")
	}
	if ctx.IsSet("step") {
		cfg.Sweep.Step = ctx.Float64("step")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadBuildings(path string, policy model.MonotonicPolicy) ([]data.BuildingRecord, []*model.Building, error) {
	records, err := data.LoadBuildings(path)
	if err != nil {
		return nil, nil, err
	}
	buildings, err := data.BuildBuildings(records, policy)
	if err != nil {
		return nil, nil, err
	}
	return records, buildings, nil
}

// buildMarket seeds the market with the first building and adds the others
// the way a remote peer would submit them: as flattened bids. Snapshot files
// follow.
func buildMarket(buildings []*model.Building, remoteFiles []string, policy model.MonotonicPolicy) (*market.Market, error) {
	m, err := market.New(market.Options{Policy: policy}, buildings[0])
	if err != nil {
		return nil, err
	}
	for _, b := range buildings[1:] {
		if err := m.AddRemoteBuilding(b.Name, b.FlattenBid()); err != nil {
			return nil, err
		}
	}
	for _, path := range remoteFiles {
		snap, err := wire.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := snap.AddTo(m); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return m, nil
}

func policyOf(raw string) (model.MonotonicPolicy, error) {
	p, err := model.ParseMonotonicPolicy(raw)
	if err != nil {
		return "", model.ConfigErrorf("policy", "%v", err)
	}
	return p, nil
}

func doSweep(ctx *cli.Context, cfg *config.Config, outPath, format string) error {
	logging.Setup(cfg.Log.Level)
	logging.LogConfigSummary(cfg)

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	_, buildings, err := loadBuildings(cfg.BuildingsFile, policy)
	if err != nil {
		return err
	}
	m, err := buildMarket(buildings, cfg.RemoteFiles, policy)
	if err != nil {
		return err
	}
	m.Display(ctx.App.Writer)

	res, err := sweep.New().Run(m, buildings, cfg.Range())
	if err != nil {
		return err
	}

	switch {
	case outPath == "" && format == "csv":
		err = sweep.WriteCSV(ctx.App.Writer, res)
	case outPath == "":
		err = sweep.WriteTable(ctx.App.Writer, res)
	case format == "csv":
		err = sweep.WriteCSVFile(outPath, res)
	default:
		err = sweep.WriteTableFile(outPath, res)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(ctx.App.Writer, "Wrote %d rows to %s\n", len(res.Rows), outPath)
	}

	s := analysis.Summarize(res)
	logx.Infof("cleared %d offers: price %.2f..%.2f (mean %.2f, p05-p95 spread %.2f), max load %.2f, max tracking error %.2f",
		s.Count, s.MinPrice, s.MaxPrice, s.MeanPrice, s.SpreadP95P05, res.MaxTotalLoad, s.MaxTrackingError)
	for i, f := range analysis.RankByFlexibility(res) {
		logx.Infof("flexibility #%d %s: swing %.2f kW (%.2f..%.2f)", i+1, f.Name, f.Swing, f.MinQuantity, f.MaxQuantity)
	}
	return nil
}

func doClear(ctx *cli.Context, buildingsFile, rawPolicy string, offer float64) error {
	logging.Setup(ctx.String("log-level"))
	if math.IsNaN(offer) || math.IsInf(offer, 0) {
		return fmt.Errorf("offer must be a finite number, got %v", offer)
	}
	policy, err := policyOf(rawPolicy)
	if err != nil {
		return err
	}
	_, buildings, err := loadBuildings(buildingsFile, policy)
	if err != nil {
		return err
	}
	m, err := buildMarket(buildings, nil, policy)
	if err != nil {
		return err
	}
	price, err := m.ClearOffer(offer)
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "Offer %.2f clears at price %.2f\n", offer, price)
	total := 0.0
	for _, b := range buildings {
		q := b.LoadAtPrice(price)
		total += q
		fmt.Fprintf(w, "  %-20s %10.2f kW %10.2f\n", b.Name, q, b.ResponseAtLoad(q))
	}
	fmt.Fprintf(w, "  %-20s %10.2f kW\n", "total", total)
	return nil
}

func doShow(ctx *cli.Context, buildingsFile, rawPolicy string) error {
	logging.Setup(ctx.String("log-level"))
	policy, err := policyOf(rawPolicy)
	if err != nil {
		return err
	}
	records, buildings, err := loadBuildings(buildingsFile, policy)
	if err != nil {
		return err
	}
	m, err := buildMarket(buildings, nil, policy)
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	for i, b := range buildings {
		b.Display(w)
		if records[i].FourPoint != nil {
			if err := showFourPoint(w, *records[i].FourPoint); err != nil {
				return fmt.Errorf("building %q: %w", b.Name, err)
			}
		}
	}
	m.Display(w)
	return nil
}

// showFourPoint prints the marginal price curve a four-point bid was
// derived from, highest price first.
func showFourPoint(w io.Writer, spec bidding.FourPointSpec) error {
	bid, err := bidding.NewFourPointBid(spec)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "  four-point bid, marginal price curve:")
	fmt.Fprintf(w, "  %12s %12s\n", "cumulative", "price")
	for _, p := range bid.MarginalPriceCurve(model.DirectionDescending) {
		fmt.Fprintf(w, "  %12.4f %12.4f\n", p.Quantity, p.Price)
	}
	return nil
}

// snapshotPath keeps snapshot files inside dir.
func snapshotPath(dir, name string) (string, error) {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", model.ConfigErrorf("name", "building %q cannot be used as a file name", name)
	}
	return filepath.Join(dir, name+".msgpack"), nil
}

// doSnapshot writes one msgpack snapshot per building plus buildings.json,
// the same buildings with four-point bids resolved into bid arrays.
func doSnapshot(ctx *cli.Context, buildingsFile, dir string) error {
	logging.Setup(ctx.String("log-level"))
	_, buildings, err := loadBuildings(buildingsFile, model.PolicyReject)
	if err != nil {
		return err
	}

	paths := make([]string, len(buildings))
	for i, b := range buildings {
		if paths[i], err = snapshotPath(dir, b.Name); err != nil {
			return err
		}
	}

	records := make([]data.BuildingRecord, 0, len(buildings))
	for i, b := range buildings {
		if err := wire.WriteFile(paths[i], wire.FromBuilding(b)); err != nil {
			return err
		}
		logx.Infof("wrote snapshot %s", paths[i])
		records = append(records, data.RecordFromBuilding(b))
	}
	if err := data.SaveBuildings(records, filepath.Join(dir, "buildings.json")); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Wrote %d snapshots to %s\n", len(buildings), dir)
	return nil
}
