package receipt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const htmlLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: sans-serif; width: 420px; margin: 24px auto; }
h1 { font-size: 18px; text-align: center; margin-bottom: 2px; }
h2 { font-size: 14px; text-align: center; font-weight: normal; margin-top: 0; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #444; padding: 4px 6px; font-size: 12px; }
td.num, th.num { text-align: right; }
tr.total td { font-weight: bold; }
p.meta { font-size: 12px; margin: 2px 0; }
</style>
</head>
<body>
<h1>SmartShop Receipt</h1>
<h2>{{.StoreName}}</h2>
<p class="meta">Sale ID: {{.SaleID}}</p>
<p class="meta">Customer: {{.Customer}}</p>
<p class="meta">Date: {{.Timestamp}}</p>
<table>
<tr><th>Item</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Subtotal</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Subtotal}}</td></tr>
{{end}}<tr class="total"><td colspan="3">Total</td><td class="num">{{.Total}}</td></tr>
</table>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("receipt_html").Parse(htmlLayout))

// WritePDF renders the receipt as HTML and prints it to PDF through a
// headless browser. The PDF sits next to the text receipt as
// receipt_<id>.pdf.
func WritePDF(dir string, d Data) (string, error) {
	htmlPath := filepath.Join(dir, fmt.Sprintf("receipt_%d.html", d.SaleID))
	f, err := os.Create(htmlPath)
	if err != nil {
		return "", fmt.Errorf("failed to create receipt html: %w", err)
	}
	if err := htmlTemplate.Execute(f, d); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render receipt html: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to flush receipt html: %w", err)
	}
	defer os.Remove(htmlPath)

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve receipt html path: %w", err)
	}

	var pdfBytes []byte
	if err := rod.Try(func() {
		u := launcher.New().Headless(true).MustLaunch()
		browser := rod.New().ControlURL(u).MustConnect()
		defer browser.MustClose()

		page := browser.MustPage("file://" + absPath)
		page.MustWaitLoad()

		reader, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
		if err != nil {
			panic(err)
		}
		b, err := io.ReadAll(reader)
		if err != nil {
			panic(err)
		}
		pdfBytes = b
	}); err != nil {
		return "", fmt.Errorf("headless browser failed to print receipt %d: %w", d.SaleID, err)
	}

	pdfPath := filepath.Join(dir, fmt.Sprintf("receipt_%d.pdf", d.SaleID))
	if err := os.WriteFile(pdfPath, pdfBytes, 0644); err != nil {
		return "", fmt.Errorf("failed to write receipt pdf: %w", err)
	}
	return pdfPath, nil
}
