package output

import (
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pixlens/pixlens/internal/core"
)

// RateLimitTable renders the persisted per-endpoint limiter snapshots.
func RateLimitTable(snapshots map[string]core.RateLimitSnapshot) string {
	endpoints := make([]string, 0, len(snapshots))
	for endpoint := range snapshots {
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Endpoint", "Remaining", "Limit", "Reset", "Cooldown"})

	for _, endpoint := range endpoints {
		snap := snapshots[endpoint]
		cooldown := "-"
		if snap.CooldownReset > 0 {
			cooldown = (time.Duration(snap.CooldownReset) * time.Second).String()
		}
		t.AppendRow(table.Row{
			endpoint,
			snap.Remaining,
			snap.Limit,
			fmt.Sprintf("%.1fs", snap.Reset),
			cooldown,
		})
	}

	return t.Render()
}

// CanvasTable renders a summary of a canvas snapshot.
func CanvasTable(canvas *core.Canvas) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRow(table.Row{"Width", canvas.Width()})
	t.AppendRow(table.Row{"Height", canvas.Height()})
	t.AppendRow(table.Row{"Pixels", canvas.Width() * canvas.Height()})
	return t.Render()
}
