package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shopadmin/internal/domain"
	"shopadmin/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// InvoiceService renders a cart's pricing summary as a PDF.
type InvoiceService struct {
	Carts CartService
	Log   *slog.Logger
	Now   func() time.Time
}

func (s InvoiceService) CartInvoice(ctx context.Context, rc domain.RequestContext, cartID uint) ([]byte, string, error) {
	view, err := s.Carts.Get(ctx, rc, cartID, nil)
	if err != nil {
		return nil, "", err
	}
	now := utils.NowUTC
	if s.Now != nil {
		now = s.Now
	}
	utils.LogEvent(s.Log, rc.RequestID, "invoice", "generate", idField(cartID))
	return buildCartInvoicePDF(view, now())
}

func buildCartInvoicePDF(v CartView, at time.Time) ([]byte, string, error) {
	invNo := fmt.Sprintf("INV-%s-%06d", at.UTC().Format("20060102"), v.ID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+invNo, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice no : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+utils.FormatDateTime(at))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Customer   : #%d", v.UserID))
	pdf.Ln(10)

	widths := []float64{70, 25, 15, 20, 25, 25}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Product", "Unit price", "Qty", "Disc.", "Discount", "Line total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	if len(v.Items) == 0 {
		pdf.Cell(0, 7, "Cart is empty.")
		pdf.Ln(7)
	}
	for _, l := range v.Items {
		title := safe(l.Title, fmt.Sprintf("Product #%d", l.ProductID))
		cells := []string{
			utils.Truncate(title, 40),
			utils.FormatMoney(l.UnitPrice),
			fmt.Sprintf("%d", l.Quantity),
			l.Rate.Shift(2).StringFixed(0) + "%",
			utils.FormatMoney(l.Discount),
			utils.FormatMoney(l.LineTotal),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, c, "", 0, align, false, 0, "")
		}
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(155, 7, "Subtotal", "T", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, utils.FormatCurrency("", v.Subtotal), "T", 1, "R", false, 0, "")
	pdf.CellFormat(155, 7, "Discount", "", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, utils.FormatCurrency("-", v.Discount), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(155, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, utils.FormatCurrency("", v.Total), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Quantity discounts: 4-9 units 10%, 10-20 units 20%.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "invoice rendering failed", Err: err}
	}
	return buf.Bytes(), fmt.Sprintf("INVOICE_%d_%s.pdf", v.ID, at.UTC().Format("20060102")), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
