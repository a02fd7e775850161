package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"qramgrover/grover"
	"qramgrover/sim"
)

const (
	chartTargetColor = "#22c55e"
	chartOtherColor  = "#0ea5e9"
)

// writeChart renders the address histogram of res as an HTML bar chart. Every
// address of the register gets a bar, target indices in green.
func writeChart(w io.Writer, res *grover.Result) error {
	plan := res.Plan
	n := 1 << uint(plan.Widths.Address)

	addresses := make([]string, n)
	bars := make([]opts.BarData, n)
	for a := range n {
		addresses[a] = fmt.Sprintf("%d (%s)", a, sim.Bitstring(uint64(a), plan.Widths.Address))
		color := chartOtherColor
		if res.Targets.Contains(uint32(a)) {
			color = chartTargetColor
		}
		bars[a] = opts.BarData{
			Name:      addresses[a],
			Value:     res.Counts[uint64(a)],
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "QRAM Grover search",
			Subtitle: fmt.Sprintf("vector %v, %s strategy, %d rounds, %d shots, %.1f%% on targets",
				plan.Vector, plan.Strategy, plan.Iterations, res.Shots, 100*res.Concentration()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "address"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "shots"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
			},
		}),
	)
	bar.SetXAxis(addresses).AddSeries("counts", bars)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
