package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"

	"ecoulement_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns default options for station factsheets
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       54,
		MarginBottom:    54,
		MarginLeft:      54,
		MarginRight:     54,
	}
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	case "letter":
		paperWidth = 8.5
		paperHeight = 11.0
	default: // A4
		paperWidth = 8.27
		paperHeight = 11.69
	}

	// Swap dimensions for landscape
	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// Convert points to inches for margins
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		// Set the HTML content
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		// Generate PDF
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

var factsheetTmpl = template.Must(template.New("factsheet").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<style>
	body { font-family: Helvetica, Arial, sans-serif; color: #1a1a2e; }
	h1 { font-size: 20px; border-bottom: 2px solid #16324f; padding-bottom: 6px; }
	h2 { font-size: 14px; margin-top: 24px; color: #16324f; }
	table { width: 100%; border-collapse: collapse; font-size: 11px; }
	th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
	th { background: #eef2f7; }
	.meta td:first-child { font-weight: bold; width: 35%; }
</style>
</head>
<body>
	<h1>Station {{.Station.Code}} — {{.Station.Name}}</h1>
	<table class="meta">
		<tr><td>État</td><td>{{.Station.State}}</td></tr>
		<tr><td>Commune</td><td>{{.Station.Commune.Name}} ({{.Station.Commune.Code}})</td></tr>
		<tr><td>Département</td><td>{{.Station.Commune.Departement.Name}}</td></tr>
		<tr><td>Région</td><td>{{.Station.Commune.Departement.Region.Name}}</td></tr>
		<tr><td>Cours d'eau</td><td>{{.Station.CoursEau.Name}}</td></tr>
		<tr><td>Bassin</td><td>{{.Station.Bassin.Name}}</td></tr>
		<tr><td>Coordonnées</td><td>{{printf "%.5f" .Station.Latitude}}, {{printf "%.5f" .Station.Longitude}}</td></tr>
	</table>

	<h2>Dernières observations</h2>
	{{if .Observations}}
	<table>
		<tr><th>Date</th><th>Écoulement</th><th>Code</th></tr>
		{{range .Observations}}
		<tr><td>{{.ObservedAt.Format "02/01/2006"}}</td><td>{{.FlowLabel}}</td><td>{{.FlowCode}}</td></tr>
		{{end}}
	</table>
	{{else}}
	<p>Aucune observation en cache pour cette station.</p>
	{{end}}
</body>
</html>`))

// BuildStationFactsheetHTML renders the printable factsheet for a station
func BuildStationFactsheetHTML(station *models.Station, observations []models.Observation) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Station      *models.Station
		Observations []models.Observation
	}{station, observations}

	if err := factsheetTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render factsheet: %w", err)
	}
	return buf.String(), nil
}

// GenerateStationFactsheet builds the factsheet HTML and renders it to PDF
func GenerateStationFactsheet(station *models.Station, observations []models.Observation) ([]byte, error) {
	html, err := BuildStationFactsheetHTML(station, observations)
	if err != nil {
		return nil, err
	}
	return GeneratePDF(html, DefaultPDFOptions())
}
