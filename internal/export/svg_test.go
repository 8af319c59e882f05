package export

import (
	"strings"
	"testing"

	"github.com/san-kum/worb/internal/sim"
)

func TestTrajectoriesToSVG(t *testing.T) {
	frames := []sim.Frame{
		{Bodies: []sim.BodyState{
			{Position: [3]float64{0, 2, 0}},
			{Position: [3]float64{1, 3, 0}},
		}},
		{Bodies: []sim.BodyState{
			{Position: [3]float64{0.5, 1.5, 0}},
			{Position: [3]float64{1.2, 2.5, 0}},
		}},
		{Bodies: []sim.BodyState{
			{Position: [3]float64{1, 1, 0}},
			{Position: [3]float64{1.4, 2, 0}},
		}},
	}

	svg := TrajectoriesToSVG(frames, 800, 600)

	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Fatal("output should be an SVG document")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected one path per body, got %d", got)
	}
	if !strings.Contains(svg, `width="800"`) {
		t.Error("width attribute missing")
	}
}

func TestTrajectoriesToSVGEmpty(t *testing.T) {
	if TrajectoriesToSVG(nil, 800, 600) != "" {
		t.Error("no frames should render nothing")
	}

	one := []sim.Frame{{Bodies: []sim.BodyState{{}}}}
	if TrajectoriesToSVG(one, 800, 600) != "" {
		t.Error("a single frame should render nothing")
	}
}
