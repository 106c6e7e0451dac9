package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
)

const barWidth = 20

var (
	titleColor  = color.New(color.Bold)
	doneColor   = color.New(color.FgGreen)
	mutedColor  = color.New(color.Faint)
	noticeColor = color.New(color.FgHiGreen, color.Bold)
	warnColor   = color.New(color.FgYellow)
)

func progressBar(percent int) string {
	filled := percent * barWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func renderSnapshot(w io.Writer, snap services.Snapshot) {
	titleColor.Fprintf(w, "%s  %s\n", snap.Title, mutedColor.Sprint(snap.Date))

	if snap.Goal != "" {
		fmt.Fprintf(w, "  Goal:     %s\n", snap.Goal)
	}
	if snap.Target > 0 {
		fmt.Fprintf(w, "  Target:   %d %s\n", snap.Target, snap.Unit)
	}

	bar := progressBar(snap.Percent)
	if snap.Percent == 100 {
		bar = doneColor.Sprint(bar)
	}
	fmt.Fprintf(w, "  Progress: %s %3d%%  (%d/%d %s)\n", bar, snap.Percent, snap.Progress, snap.Cap, snap.Unit)

	if len(snap.Completed) > 0 {
		fmt.Fprintln(w, "  Completed:")
		for i, e := range snap.Completed {
			fmt.Fprintf(w, "    %d.%s (+%d)\n", i+1, e.Label, e.Value)
		}
	}

	fmt.Fprintln(w, "  Actions:")
	for _, b := range snap.Buttons {
		label := b.Label
		if b.Value > 0 && b.Kind != domain.ButtonPrompt {
			label = fmt.Sprintf("%s (+%d)", b.Label, b.Value)
		}
		if b.Disabled {
			fmt.Fprintf(w, "    %d) %s\n", b.Index+1, mutedColor.Sprint(label+" - done"))
			continue
		}
		fmt.Fprintf(w, "    %d) %s\n", b.Index+1, label)
	}
}

func renderList(w io.Writer, snaps []services.Snapshot) {
	for i, snap := range snaps {
		fmt.Fprintf(w, "%d. %-10s %s %3d%%\n", i+1, snap.Title, progressBar(snap.Percent), snap.Percent)
	}
}

// ColorNotifier prints completion notices to the terminal.
type ColorNotifier struct {
	Out io.Writer
}

func (n ColorNotifier) Notify(ctx context.Context, notice domain.Notice) {
	noticeColor.Fprintf(n.Out, "* %s\n", notice.Message)
}
