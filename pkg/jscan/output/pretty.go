package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *types.ScanResult) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))

	if len(r.Errors) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatErrors(r.Errors))
	}

	return nil
}

// formatHeader builds the header box with scan metadata.
func (f *PrettyFormatter) formatHeader(r *types.ScanResult) string {
	var parts []string

	scannedLabel := LabelStyle.Render("Scanned:")
	scannedValue := ValueStyle.Render(fmt.Sprintf("%s dirs in %s",
		humanize.Comma(r.Stats.DirsScanned), formatDuration(r.Stats.Elapsed)))
	parts = append(parts, fmt.Sprintf("%s %s", scannedLabel, scannedValue))

	probedLabel := LabelStyle.Render("Probed:")
	probedValue := ValueStyle.Render(fmt.Sprintf("%d of %d candidates",
		r.Stats.CandidatesProbed, r.Stats.CandidatesFound))
	parts = append(parts, fmt.Sprintf("%s %s", probedLabel, probedValue))

	if r.Stats.CacheHits > 0 {
		cacheLabel := LabelStyle.Render("Cache:")
		cacheValue := MutedStyle.Render(fmt.Sprintf("%d hits", r.Stats.CacheHits))
		parts = append(parts, fmt.Sprintf("%s %s", cacheLabel, cacheValue))
	}

	return HeaderBox.Render(strings.Join(parts, "  "))
}

// formatTable builds the runtime table with VERSION, ARCH and PATH columns.
func (f *PrettyFormatter) formatTable(r *types.ScanResult) string {
	if len(r.Runtimes) == 0 {
		return MutedStyle.Render("  No Java runtimes found\n")
	}

	var sb strings.Builder

	// Column headers
	versionHeader := TableHeaderStyle.Render("VERSION")
	archHeader := TableHeaderStyle.Render("ARCH")
	pathHeader := TableHeaderStyle.Render("PATH")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", versionHeader, archHeader, pathHeader))

	// Calculate max version width for alignment
	maxVersionWidth := 0
	for _, rt := range r.Runtimes {
		if len(rt.Version) > maxVersionWidth {
			maxVersionWidth = len(rt.Version)
		}
	}
	if maxVersionWidth < 8 {
		maxVersionWidth = 8 // Minimum width
	}

	// Runtime rows
	for _, rt := range r.Runtimes {
		versionStr := VersionStyle.Render(padLeft(rt.Version, maxVersionWidth))
		archStr := ArchStyle.Render(rt.Architecture)
		pathStr := PathStyle.Render(rt.Path)
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", versionStr, archStr, pathStr))
	}

	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *types.ScanResult) string {
	var parts []string

	countLabel := LabelStyle.Render("Runtimes:")
	countValue := ValueStyle.Render(fmt.Sprintf("%d", r.Count()))
	parts = append(parts, fmt.Sprintf("%s %s", countLabel, countValue))

	if r.Stats.BytesProbed > 0 {
		probedLabel := LabelStyle.Render("Binaries:")
		probedValue := VersionStyle.Render(humanize.IBytes(uint64(r.Stats.BytesProbed)))
		parts = append(parts, fmt.Sprintf("%s %s", probedLabel, probedValue))
	}

	// Hints
	hint := MutedStyle.Render("Use -o plain for unformatted output")
	parts = append(parts, hint)

	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatErrors builds a warning block from the scan's traversal errors.
func (f *PrettyFormatter) formatErrors(errs []types.ScanError) string {
	var sb strings.Builder

	titleStyle := WarningStyle.Bold(true)
	sb.WriteString(titleStyle.Render("Warnings:"))
	sb.WriteString("\n")

	for _, e := range errs {
		sb.WriteString(WarningStyle.Render("  " + e.Path + ": " + e.Error))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a time.Duration as a human-friendly string.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
	// Alias kept for discoverability; same styled renderer.
	Register("table", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
