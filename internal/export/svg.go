package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/worb/internal/sim"
)

var strokeColors = []string{
	"#00ff88", "#00ccff", "#ffcc00", "#ff4444", "#cc66ff", "#ff8800",
}

// TrajectoriesToSVG renders the side-view (X,Y) path of every body in
// the run as one polyline per body.
func TrajectoriesToSVG(frames []sim.Frame, width, height int) string {
	if len(frames) < 2 || len(frames[0].Bodies) == 0 {
		return ""
	}

	bodies := len(frames[0].Bodies)

	minX, maxX := frames[0].Bodies[0].Position[0], frames[0].Bodies[0].Position[0]
	minY, maxY := frames[0].Bodies[0].Position[1], frames[0].Bodies[0].Position[1]
	for _, f := range frames {
		for _, b := range f.Bodies {
			if b.Position[0] < minX {
				minX = b.Position[0]
			}
			if b.Position[0] > maxX {
				maxX = b.Position[0]
			}
			if b.Position[1] < minY {
				minY = b.Position[1]
			}
			if b.Position[1] > maxY {
				maxY = b.Position[1]
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i := 0; i < bodies; i++ {
		color := strokeColors[i%len(strokeColors)]
		sb.WriteString(fmt.Sprintf(
			`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))

		for j, f := range frames {
			x := (f.Bodies[i].Position[0] - minX) / rangeX * float64(width)
			y := float64(height) - (f.Bodies[i].Position[1]-minY)/rangeY*float64(height)

			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}

		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
