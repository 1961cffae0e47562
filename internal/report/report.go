// Package report renders partner report cards as HTML pages with histogram figures.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/scorecard/schema"
)

//go:embed templates/Template.htm templates/Template.css
var defaultFS embed.FS

// Options configures a Writer. Empty template or stylesheet paths select the embedded defaults.
type Options struct {
	TemplateFile   string
	StylesheetFile string
	ReportDir      string
	FiguresDir     string
	Precision      int
}

// Writer renders report cards to disk.
type Writer struct {
	tmpl       *template.Template
	stylesheet string
	reportDir  string
	figuresDir string
	precision  int
}

// sectionView is the template view of one component block.
type sectionView struct {
	Component     string
	Title         string
	Subtitle      string
	TextLines     []string
	Headers       []string
	Rows          [][]string
	HistogramLink string
}

// pageView is the data handed to the report template.
type pageView struct {
	PartnerID  int
	Name       string
	Region     string
	Stats      string
	Stylesheet template.CSS
	Sections   []sectionView
}

// NewWriter loads the template and stylesheet.
func NewWriter(opts Options) (*Writer, error) {
	tmplText, err := readOrDefault(opts.TemplateFile, "templates/Template.htm")
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	css, err := readOrDefault(opts.StylesheetFile, "templates/Template.css")
	if err != nil {
		return nil, fmt.Errorf("load stylesheet: %w", err)
	}
	tmpl, err := template.New("report").Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	precision := opts.Precision
	if precision <= 0 {
		precision = 2
	}
	return &Writer{
		tmpl:       tmpl,
		stylesheet: css,
		reportDir:  opts.ReportDir,
		figuresDir: opts.FiguresDir,
		precision:  precision,
	}, nil
}

func readOrDefault(path, embedded string) (string, error) {
	if path == "" {
		data, err := defaultFS.ReadFile(embedded)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// Render saves the histogram figures of every section and writes the filled
// template. It returns the path of the written report.
func (w *Writer) Render(card *schema.ReportCard) (string, error) {
	if err := os.MkdirAll(w.reportDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	view := pageView{
		PartnerID:  card.PartnerID,
		Name:       card.Name,
		Region:     card.Region,
		Stats:      card.Stats,
		Stylesheet: template.CSS(w.stylesheet),
	}
	for _, s := range card.Sections {
		figure := filepath.Join(w.figuresDir, HistogramFile(card.PartnerID, s.Summary.Component))
		if err := SaveHistograms(s.AllHistogram, s.RegionHistogram, figure); err != nil {
			return "", err
		}
		link, err := filepath.Rel(w.reportDir, figure)
		if err != nil {
			link = figure
		}
		view.Sections = append(view.Sections, w.sectionView(s, filepath.ToSlash(link)))
	}

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render report for partner %d: %w", card.PartnerID, err)
	}
	path := filepath.Join(w.reportDir, card.CompactName+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func (w *Writer) sectionView(s schema.ReportSection, link string) sectionView {
	title, subtitle, found := strings.Cut(s.Summary.Title, " (")
	if found {
		subtitle = "(" + subtitle
	}
	view := sectionView{
		Component:     string(s.Summary.Component),
		Title:         title,
		Subtitle:      subtitle,
		TextLines:     strings.Split(s.Summary.Text, "\n"),
		Headers:       s.Table.Headers(),
		HistogramLink: link,
	}
	for _, row := range s.Table.Rows {
		line := []string{row.Component, w.number(row.Score), w.number(row.MedianAll), row.PercentileAll}
		if s.Table.HasRegion {
			line = append(line, w.number(row.MedianRegion), row.PercentileRegion)
		}
		view.Rows = append(view.Rows, line)
	}
	return view
}

func (w *Writer) number(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", w.precision, v)
}
