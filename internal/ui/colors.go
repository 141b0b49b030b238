package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/qpm/internal/tasks"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FAFAFA", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	focused lipgloss.Style
	label   lipgloss.Style
	help    lipgloss.Style
}

func NewPalette(t, s, e, f, h string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		ok:      NewBold(s),
		err:     NewBold(e),
		focused: NewBold(f),
		label:   NewStyle(h).Width(labelWidth),
		help:    NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// ProgressColor blends from red to green as a run advances.
//
// Success is fully green and Failed fully red. Idle has no visible color, reported by ok == false.
func ProgressColor(progress float64, status tasks.Status) (color lipgloss.Color, ok bool) {
	var amount int
	switch status {
	case tasks.Success:
		amount = 255
	case tasks.Generating:
		amount = int(min(max(progress/100*255, 0), 255))
	}
	return lipgloss.Color(fmt.Sprintf("#%02X%02X00", 255-amount, amount)), status != tasks.Idle
}

// renderStatus colors [tasks.StatusMessage] with [ProgressColor]. Idle renders nothing.
func renderStatus(progress float64, status tasks.Status) string {
	color, ok := ProgressColor(progress, status)
	if !ok {
		return ""
	}
	return NewBold(string(color)).Render(tasks.StatusMessage(progress, status))
}
