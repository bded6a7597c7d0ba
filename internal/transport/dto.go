package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kalakriti/backend/internal/models"
)

// FlexID accepts an id sent either as a JSON number or as a numeric string.
type FlexID uint

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*f = FlexID(n)
	return nil
}

func (f FlexID) Ptr() *uint {
	if f == 0 {
		return nil
	}
	v := uint(f)
	return &v
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

type OrderItemRequest struct {
	ServiceID FlexID  `json:"serviceId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type OrderRequest struct {
	UserID        FlexID             `json:"userId"`
	CustomerName  string             `json:"customerName"`
	Phone         string             `json:"phone"`
	Address       string             `json:"address"`
	UserEmail     string             `json:"userEmail"`
	TotalPrice    float64            `json:"totalPrice"`
	PaymentMethod string             `json:"paymentMethod"`
	Items         []OrderItemRequest `json:"items"`
}

// Order builds the unsaved order row; status fields are left to the service.
func (r OrderRequest) Order() models.Order {
	items := make([]models.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, models.OrderItem{
			ServiceID: uint(it.ServiceID),
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Image:     it.Image,
		})
	}
	return models.Order{
		UserID:        r.UserID.Ptr(),
		CustomerName:  strings.TrimSpace(r.CustomerName),
		Phone:         strings.TrimSpace(r.Phone),
		Address:       strings.TrimSpace(r.Address),
		UserEmail:     strings.TrimSpace(r.UserEmail),
		TotalPrice:    r.TotalPrice,
		PaymentMethod: strings.ToUpper(strings.TrimSpace(r.PaymentMethod)),
		Items:         items,
	}
}

type PaymentOrderRequest struct {
	Amount float64 `json:"amount"`
}

type PaymentOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID string       `json:"razorpayOrderId"`
	PaymentID       string       `json:"paymentId"`
	Signature       string       `json:"signature"`
	OrderData       OrderRequest `json:"orderData"`
}

type ReviewRequest struct {
	ServiceID   FlexID `json:"serviceId"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	ReviewImage string `json:"reviewImage"`
}

type ReviewStats struct {
	AverageRating      float64       `json:"averageRating"`
	TotalReviews       int64         `json:"totalReviews"`
	RatingDistribution map[int]int64 `json:"ratingDistribution"`
}

type ContactReplyRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactAdminDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactAdminDTO(c models.ContactMessage) ContactAdminDTO {
	return ContactAdminDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Message:   c.Message,
		Images:    c.ImagePaths(),
		CreatedAt: c.CreatedAt,
	}
}

type UserUpdateRequest struct {
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ServiceRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type ArtRequest struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Status      string   `json:"status"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

type DashboardResponse struct {
	TotalOrders    int64                   `json:"totalOrders"`
	TotalRevenue   float64                 `json:"totalRevenue"`
	TotalUsers     int64                   `json:"totalUsers"`
	RecentOrders   []models.Order          `json:"recentOrders"`
	RecentContacts []models.ContactMessage `json:"recentContacts"`
}

type Activity struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Icon      string    `json:"icon"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
