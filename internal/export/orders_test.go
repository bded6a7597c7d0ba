package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kalakriti/backend/internal/models"
)

func TestOrdersXLSX(t *testing.T) {
	t.Parallel()

	paid := models.PaymentPaid
	orders := []models.Order{
		{
			ID:            2,
			CustomerName:  "Ann",
			UserEmail:     "ann@x.com",
			TotalPrice:    998,
			PaymentMethod: models.PaymentOnline,
			PaymentStatus: &paid,
			Status:        models.OrderStatusPlaced,
			CreatedAt:     time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{Name: "Madhubani", Quantity: 1},
				{Name: "Warli", Quantity: 2},
			},
		},
		{ID: 1, CustomerName: "Bo", PaymentMethod: models.PaymentCOD, Status: models.OrderStatusShipped},
	}

	data, err := OrdersXLSX(orders)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "2026-01-02 15:04", rows[1][1])
	assert.Equal(t, "Madhubani x1, Warli x2", rows[1][6])
	assert.Equal(t, "PAID", rows[1][9])
	assert.Equal(t, "SHIPPED", rows[2][10])
}
