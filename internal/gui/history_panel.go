package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/kannadify/internal/history"
)

// HistoryPanel lists recent translations, newest first
type HistoryPanel struct {
	widget.BaseWidget

	container  *fyne.Container
	entry      *widget.Entry
	scrollView *container.Scroll
}

// NewHistoryPanel creates the panel. onRefresh runs when the refresh
// button is pressed.
func NewHistoryPanel(onRefresh func()) *HistoryPanel {
	p := &HistoryPanel{}

	// Read-only multiline
	p.entry = widget.NewMultiLineEntry()
	p.entry.Disable()
	p.entry.Wrapping = fyne.TextWrapWord

	p.scrollView = container.NewScroll(p.entry)
	p.scrollView.SetMinSize(fyne.NewSize(0, 120))

	refresh := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), onRefresh)

	p.container = container.NewBorder(
		container.NewBorder(nil, nil, nil, refresh, widget.NewLabel("Recent translations (newest first):")),
		nil,
		nil,
		nil,
		p.scrollView,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *HistoryPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetEntries replaces the listed entries. Call from the main goroutine.
func (p *HistoryPanel) SetEntries(entries []history.Entry) {
	p.entry.SetText(formatHistory(entries))
	p.scrollView.Offset = fyne.NewPos(0, 0)
	p.scrollView.Refresh()
}

// SetMessage shows message instead of entries
func (p *HistoryPanel) SetMessage(message string) {
	p.entry.SetText(message)
}

func formatHistory(entries []history.Entry) string {
	if len(entries) == 0 {
		return "No translations yet"
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s = %s",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.English, e.Kannada))
	}
	return strings.Join(lines, "\n")
}
