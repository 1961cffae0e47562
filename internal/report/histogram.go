package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/huangsam/scorecard/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Histogram image geometry.
const (
	histogramBins   = 10
	histogramWidth  = 10 * vg.Inch
	histogramHeight = 5 * vg.Inch
)

// markerColor draws the partner's own position.
var markerColor = color.RGBA{G: 128, A: 255}

// HistogramFile returns the file name of a partner's histogram pair for one component.
func HistogramFile(partnerID int, component schema.Component) string {
	return fmt.Sprintf("%d_%s.png", partnerID, component)
}

// SaveHistograms draws the population and regional distributions side by side
// and writes them as one PNG image.
func SaveHistograms(all, region schema.HistogramData, path string) error {
	left, err := histogramPlot(all)
	if err != nil {
		return err
	}
	right, err := histogramPlot(region)
	if err != nil {
		return err
	}

	img := vgimg.New(histogramWidth, histogramHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{{left, right}}
	canvases := plot.Align(plots, tiles, dc)
	for j, p := range plots[0] {
		p.Draw(canvases[0][j])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create figures dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create histogram file: %w", err)
	}
	defer func() { _ = f.Close() }()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write histogram %s: %w", path, err)
	}
	return nil
}

// histogramPlot builds one histogram panel with the partner marker.
// An empty distribution yields an empty, titled panel.
func histogramPlot(data schema.HistogramData) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = data.Component
	p.Y.Label.Text = "Frequency"

	if len(data.Values) == 0 {
		return p, nil
	}

	hist, err := plotter.NewHist(plotter.Values(data.Values), histogramBins)
	if err != nil {
		return nil, fmt.Errorf("histogram for %s: %w", data.Component, err)
	}
	p.Add(hist)

	if data.HasMarker {
		top := 0.0
		for _, b := range hist.Bins {
			top = max(top, b.Weight)
		}
		line, err := plotter.NewLine(plotter.XYs{{X: data.Marker, Y: 0}, {X: data.Marker, Y: top}})
		if err != nil {
			return nil, fmt.Errorf("marker for %s: %w", data.Component, err)
		}
		line.Color = markerColor
		line.Width = vg.Points(4)
		p.Add(line)
	}
	return p, nil
}
