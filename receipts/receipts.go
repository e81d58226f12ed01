package receipts

import (
	"bytes"
	"fmt"

	"savoro/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// BuildReceipt renders an order as a self-contained printable PDF: customer
// block, line items, conditional address and delivery-charge lines, total,
// and a QR code encoding the order-tracking payload. Pure function of the
// order; the only failure modes are PDF/QR assembly.
func BuildReceipt(order models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Customer: %s", order.CustomerName))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(6)

	if order.DeliveryType == models.DeliveryDelivery {
		pdf.Cell(0, 8, fmt.Sprintf("Deliver to: %s", order.Address))
		pdf.Ln(6)
	} else {
		pdf.Cell(0, 8, "Pickup order")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// items table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(90, 7, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "", 1, "R", false, 0, "")
	}

	if order.DeliveryCharge > 0 {
		pdf.CellFormat(145, 7, "Delivery charge", "T", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.DeliveryCharge), "T", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(145, 9, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, fmt.Sprintf("%.2f", order.TotalAmount), "T", 1, "R", false, 0, "")

	// order-tracking QR
	qrPNG, err := qrcode.Encode("order:"+order.OrderID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate QR code: %w", err)
	}
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildSalesReport renders a reporting window: period label, date range,
// summary statistics, then one row per order.
func BuildSalesReport(report models.SalesReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Sales Report (%s)", report.Period))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Window: %s to %s",
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02")))
	pdf.Ln(10)

	s := report.Summary
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{
		fmt.Sprintf("Total sales: %.2f", s.TotalSales),
		fmt.Sprintf("Orders: %d", s.OrderCount),
		fmt.Sprintf("Delivery charges: %.2f", s.TotalDeliveryCharges),
		fmt.Sprintf("Average order value: %.2f", s.AverageOrderValue),
		fmt.Sprintf("Pickup / delivery: %d / %d", s.PickupCount, s.DeliveryCount),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	for _, status := range []string{"pending", "preparing", "out_for_delivery", "delivered"} {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", status, s.StatusCounts[status]))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 8, "Order", "B", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, "Placed", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Status", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, order := range report.Orders {
		pdf.CellFormat(45, 6, order.OrderID, "", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, order.CreatedAt.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, string(order.Status), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", order.TotalAmount), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
