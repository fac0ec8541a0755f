package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
)

const (
	chartTitle  = "Expenses by category"
	chartWidth  = 640
	chartHeight = 480

	pdfTitle        = "Transactions report"
	pdfChartHeading = "Expenses chart"
	pdfChartImage   = "chart"
	pdfChartWidthMM = 140.0
	pdfRowHeight    = 6.0
)

var ErrEmptyChart = errors.New("nothing to chart")

var tableColumns = []struct {
	title string
	width float64
}{
	{"Kind", 20},
	{"Amount", 25},
	{"Description", 40},
	{"Category", 35},
	{"Date", 22},
	{"Payment", 30},
	{"Status", 22},
}

// Renderer draws the pie chart and the PDF document.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Chart renders a PNG pie chart with one labeled slice per category.
func (r *Renderer) Chart(ctx context.Context, summary *Summary) (png []byte, err error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "renderChart")
	defer func() {
		if err != nil {
			ext.Error.Set(span, true)
		}
		span.Finish()
	}()

	values := pieValues(summary)
	if len(values) == 0 {
		return nil, ErrEmptyChart
	}

	pie := chart.PieChart{
		Title:  chartTitle,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}

	buf := bytes.NewBuffer(nil)
	if err = pie.Render(chart.PNG, buf); err != nil {
		return nil, errors.Wrap(err, "render chart")
	}
	return buf.Bytes(), nil
}

// PDF renders the transactions table followed by the pie chart.
func (r *Renderer) PDF(ctx context.Context, report *Report) (doc []byte, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "renderPDF")
	defer func() {
		if err != nil {
			ext.Error.Set(span, true)
		}
		span.Finish()
	}()

	png, err := r.Chart(ctx, &report.Summary)
	if err != nil && !errors.Is(err, ErrEmptyChart) {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(pdfTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, pdfTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	pdf.SetFont("Helvetica", "B", 9)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, pdfRowHeight+1, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 8)
	for _, rec := range report.Transactions {
		for i, cell := range tableRow(rec) {
			text := fit(pdf, tr, cell, tableColumns[i].width-2)
			pdf.CellFormat(tableColumns[i].width, pdfRowHeight, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if png != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, pdfChartHeading, "", 1, "L", false, 0, "")

		pdf.RegisterImageOptionsReader(pdfChartImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pageWidth, _ := pdf.GetPageSize()
		x := (pageWidth - pdfChartWidthMM) / 2
		h := pdfChartWidthMM * chartHeight / chartWidth
		pdf.ImageOptions(pdfChartImage, x, 0, pdfChartWidthMM, h, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	buf := bytes.NewBuffer(nil)
	if err = pdf.Output(buf); err != nil {
		return nil, errors.Wrap(err, "render pdf")
	}
	return buf.Bytes(), nil
}

// pieValues builds one slice per category with a positive total, labeled
// "Category 42.5%".
func pieValues(summary *Summary) []chart.Value {
	values := make([]chart.Value, 0, len(summary.Records))
	for i, rec := range summary.Records {
		if !rec.Amount.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Value: rec.Amount.InexactFloat64(),
			Label: fmt.Sprintf("%s %.1f%%", rec.Category, summary.Share(i)),
		})
	}
	return values
}

func tableRow(rec transaction.Record) []string {
	return []string{
		rec.Kind,
		FormatAmount(rec.Amount.StringFixed(2)),
		rec.Description,
		rec.Category,
		rec.OccurredAt.Format(transaction.DateLayout),
		rec.PaymentMethod,
		rec.Status,
	}
}

func FormatAmount(amount string) string {
	return "R$ " + amount
}

// fit translates text to the core font encoding and cuts it to width.
func fit(pdf *fpdf.Fpdf, tr func(string) string, text string, width float64) string {
	if pdf.GetStringWidth(tr(text)) <= width {
		return tr(text)
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes)+"...")) > width {
		runes = runes[:len(runes)-1]
	}
	return tr(string(runes) + "...")
}
