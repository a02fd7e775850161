package main

import (
	"fmt"
	"strings"

	"qramgrover/circuit"
)

// sideTab selects what the viewer's right-hand panel shows.
type sideTab int

const (
	tabCounts sideTab = iota
	tabQASM
	tabSegments
)

// sideTabs lists the panel tabs in display order.
var sideTabs = []struct {
	tab  sideTab
	name string
}{
	{tabCounts, "Counts"},
	{tabQASM, "QASM"},
	{tabSegments, "Segments"},
}

// renderTabs renders the tab strip of the side panel.
func renderTabs(active sideTab) string {
	var sb strings.Builder
	for i, t := range sideTabs {
		name := " " + t.name + " "
		if t.tab == active {
			sb.WriteString(activeTabStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(sideTabs)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	return sb.String()
}

// segmentOf returns the label of the segment holding gate index i.
func segmentOf(c circuit.Circuit, i int) string {
	for _, s := range c.Segments() {
		if i >= s.Start && i < s.End {
			return s.Label
		}
	}
	return ""
}

// renderGateDetail renders the floating popup describing gate i.
func renderGateDetail(c circuit.Circuit, i int) string {
	g := c.Gate(i)
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Gate #%d", i)))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%-10s%s\n", "Kind", gateStyle.Render(g.Kind().String()))
	fmt.Fprintf(&sb, "%-10s%s\n", "Canonical", g.String())
	if seg := segmentOf(c, i); seg != "" {
		fmt.Fprintf(&sb, "%-10s%s\n", "Segment", segmentStyle.Render(seg))
	}
	if g.NumControls() > 0 {
		var parts []string
		for _, ctl := range g.Controls() {
			sym := "●"
			if ctl.Polarity == circuit.ActiveLow {
				sym = "○"
			}
			parts = append(parts, fmt.Sprintf("%sq[%d]", sym, ctl.Qubit))
		}
		fmt.Fprintf(&sb, "%-10s%s\n", "Controls", strings.Join(parts, " "))
	}
	var targets []string
	for _, t := range g.Targets() {
		targets = append(targets, fmt.Sprintf("q[%d]", t))
	}
	fmt.Fprintf(&sb, "%-10s%s\n", "Targets", strings.Join(targets, " "))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("⏎/Esc close"))

	return detailBorderStyle.Render(sb.String())
}

// renderSegments lists the labelled segments with their gate ranges.
func renderSegments(c circuit.Circuit) string {
	var sb strings.Builder
	for k, s := range c.Segments() {
		fmt.Fprintf(&sb, "%3d  %s  %s\n", k,
			segmentStyle.Render(padRight(s.Label, 9)),
			dimStyle.Render(fmt.Sprintf("gates %d–%d (%d)", s.Start, s.End-1, s.End-s.Start)))
	}
	if sb.Len() == 0 {
		sb.WriteString(dimStyle.Render("no segments"))
	}
	return sb.String()
}
