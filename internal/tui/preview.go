package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/wingman/internal/ipc"
)

// previewRect is the companion rectangle to highlight on the monitor map,
// in desktop coordinates.
type previewRect struct {
	X, Y, Width, Height float64
}

func summarizeMonitors(monitors []ipc.MonitorInfo) string {
	if len(monitors) == 0 {
		return "no monitors"
	}
	minX, minY, maxX, maxY := desktopBounds(monitors)
	w := int(maxX - minX)
	h := int(maxY - minY)
	if len(monitors) == 1 {
		return fmt.Sprintf("1 monitor • %d×%d px", w, h)
	}
	return fmt.Sprintf("%d monitors • %d×%d px virtual desktop", len(monitors), w, h)
}

func desktopBounds(monitors []ipc.MonitorInfo) (minX, minY, maxX, maxY float64) {
	minX, minY = monitors[0].X, monitors[0].Y
	maxX = monitors[0].X + monitors[0].Width
	maxY = monitors[0].Y + monitors[0].Height
	for _, m := range monitors[1:] {
		minX = min(minX, m.X)
		minY = min(minY, m.Y)
		maxX = max(maxX, m.X+m.Width)
		maxY = max(maxY, m.Y+m.Height)
	}
	return minX, minY, maxX, maxY
}

// renderMonitorMap generates an ASCII map of the monitor arrangement.
// When preview is non-nil its rectangle is shaded on the map.
func renderMonitorMap(monitors []ipc.MonitorInfo, preview *previewRect, width, height int) []string {
	if len(monitors) == 0 || width < 8 || height < 4 {
		return emptyCanvas(width, height)
	}

	minX, minY, maxX, maxY := desktopBounds(monitors)
	spanW := maxX - minX
	spanH := maxY - minY
	if spanW <= 0 || spanH <= 0 {
		return emptyCanvas(width, height)
	}

	// Create a character canvas
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	mapX := func(v float64) int {
		x := int((v - minX) * float64(width-1) / spanW)
		if x < 0 {
			x = 0
		}
		if x >= width {
			x = width - 1
		}
		return x
	}
	mapY := func(v float64) int {
		y := int((v - minY) * float64(height-1) / spanH)
		if y < 0 {
			y = 0
		}
		if y >= height {
			y = height - 1
		}
		return y
	}

	// Shade the preview first so monitor outlines stay visible on top.
	if preview != nil && preview.Width > 0 && preview.Height > 0 {
		fillShade(canvas,
			mapX(preview.X), mapY(preview.Y),
			mapX(preview.X+preview.Width), mapY(preview.Y+preview.Height))
	}

	for _, m := range monitors {
		x1 := mapX(m.X)
		y1 := mapY(m.Y)
		x2 := mapX(m.X + m.Width)
		y2 := mapY(m.Y + m.Height)
		drawOutline(canvas, x1, y1, x2, y2)

		label := m.ID
		if m.Primary {
			label += "*"
		}
		drawCentered(canvas, label, x1, y1, x2, y2)
	}

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawOutline(canvas [][]rune, x1, y1, x2, y2 int) {
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'
}

func fillShade(canvas [][]rune, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			canvas[y][x] = '░'
		}
	}
}

func drawCentered(canvas [][]rune, label string, x1, y1, x2, y2 int) {
	if y2-y1 < 2 || x2-x1 < 4 {
		return
	}
	maxLen := x2 - x1 - 3
	if maxLen < 1 {
		return
	}
	runes := []rune(label)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	row := (y1 + y2) / 2
	start := (x1+x2)/2 - len(runes)/2
	if start <= x1 {
		start = x1 + 1
	}
	for i, r := range runes {
		if start+i >= x2 {
			break
		}
		canvas[row][start+i] = r
	}
}

func emptyCanvas(width, height int) []string {
	if width < 1 || height < 1 {
		return nil
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
