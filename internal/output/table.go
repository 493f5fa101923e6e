// Package output provides terminal output utilities for brewstrap.
//
// Table rendering uses plain ASCII columns with ANSI color reserved for
// status markers; color is suppressed when stdout is not a TTY or NO_COLOR
// is set.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/brewstrap/internal/brew"
	"github.com/blackwell-systems/brewstrap/internal/store"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// RenderPackageTable renders installed or outdated packages. showBottled
// controls whether the Bottled column appears; List-derived records do not
// carry bottle status, so list output omits it.
func RenderPackageTable(packages []*brew.Package, showBottled bool) string {
	if len(packages) == 0 {
		return "No packages found.\n"
	}

	sorted := make([]*brew.Package, len(packages))
	copy(sorted, packages)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var sb strings.Builder

	if showBottled {
		sb.WriteString(fmt.Sprintf("%-24s %-14s %-8s\n", "Formula", "Version", "Bottled"))
	} else {
		sb.WriteString(fmt.Sprintf("%-24s %-14s\n", "Formula", "Version"))
	}
	sb.WriteString(strings.Repeat("─", 48))
	sb.WriteString("\n")

	for _, pkg := range sorted {
		if showBottled {
			bottled := "no"
			if pkg.Bottled {
				bottled = "yes"
			}
			sb.WriteString(fmt.Sprintf("%-24s %-14s %-8s\n", truncate(pkg.Name, 24), pkg.Version, bottled))
		} else {
			sb.WriteString(fmt.Sprintf("%-24s %-14s\n", truncate(pkg.Name, 24), pkg.Version))
		}
	}

	return sb.String()
}

// RenderHistoryTable renders journal operations, most recent first.
func RenderHistoryTable(ops []*store.Operation) string {
	if len(ops) == 0 {
		return "No operations recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-12s %-20s %-12s %-13s %s\n",
		"Action", "Package", "Version", "When", "Detail"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	color := IsColorEnabled()
	for _, op := range ops {
		action := op.Action
		if color {
			switch op.Action {
			case store.ActionInstall, store.ActionUpgrade, store.ActionBootstrap, store.ActionKegAdded:
				action = colorGreen + action + colorReset + strings.Repeat(" ", 12-len(op.Action))
			case store.ActionRemove, store.ActionKegRemoved:
				action = colorYellow + action + colorReset + strings.Repeat(" ", 12-len(op.Action))
			default:
				action = colorGray + action + colorReset + strings.Repeat(" ", 12-len(op.Action))
			}
			sb.WriteString(fmt.Sprintf("%s %-20s %-12s %-13s %s\n",
				action, truncate(op.Package, 20), op.Version, formatRelativeTime(op.Timestamp), op.Detail))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-12s %-20s %-12s %-13s %s\n",
			action, truncate(op.Package, 20), op.Version, formatRelativeTime(op.Timestamp), op.Detail))
	}

	return sb.String()
}

// formatRelativeTime renders t relative to now ("3d ago", "just now").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// truncate shortens s to max characters, ellipsizing when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
