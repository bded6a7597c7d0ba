package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kalakriti/backend/internal/models"
)

const ordersSheet = "Orders"

var orderHeader = []any{
	"Order ID", "Created At", "Customer", "Email", "Phone", "Address",
	"Items", "Total Price", "Payment Method", "Payment Status", "Status",
}

// OrdersXLSX renders one row per order.
func OrdersXLSX(orders []models.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(ordersSheet, "A1", &orderHeader); err != nil {
		return nil, err
	}

	for i, o := range orders {
		paymentStatus := ""
		if o.PaymentStatus != nil {
			paymentStatus = *o.PaymentStatus
		}
		row := []any{
			o.ID,
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.CustomerName,
			o.UserEmail,
			o.Phone,
			o.Address,
			itemsSummary(o.Items),
			o.TotalPrice,
			o.PaymentMethod,
			paymentStatus,
			o.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func itemsSummary(items []models.OrderItem) string {
	var b bytes.Buffer
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s x%d", it.Name, it.Quantity)
	}
	return b.String()
}
