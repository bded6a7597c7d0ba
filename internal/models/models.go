package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

const (
	PaymentCOD    = "COD"
	PaymentOnline = "ONLINE"
)

const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	ContactStatusPending = "PENDING"
	ArtStatusPending     = "PENDING"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string    `gorm:"not null"                  json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null;default:''"       json:"-"`
	Role         string    `gorm:"not null;default:USER"     json:"role"`
	Phone        string    `                                 json:"phone"`
	Address      string    `                                 json:"address"`
	CreatedAt    time.Time `                                 json:"createdAt"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement"                         json:"id"`
	UserID          *uint       `gorm:"index"                                            json:"userId"`
	CustomerName    string      `                                                        json:"customerName"`
	Phone           string      `                                                        json:"phone"`
	Address         string      `                                                        json:"address"`
	UserEmail       string      `gorm:"index"                                            json:"userEmail"`
	TotalPrice      float64     `gorm:"not null;default:0"                               json:"totalPrice"`
	PaymentMethod   string      `gorm:"not null;default:COD"                             json:"paymentMethod"`
	RazorpayOrderID string      `                                                        json:"razorpayOrderId,omitempty"`
	PaymentID       *string     `gorm:"uniqueIndex"                                      json:"paymentId"`
	PaymentStatus   *string     `                                                        json:"paymentStatus"`
	Status          string      `gorm:"not null;default:PLACED"                          json:"status"`
	CreatedAt       time.Time   `gorm:"index"                                            json:"createdAt"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"   json:"items"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uint    `gorm:"index;not null"            json:"-"`
	ServiceID uint    `gorm:"index"                     json:"serviceId"`
	Name      string  `                                 json:"name"`
	Quantity  int     `gorm:"not null;default:1"        json:"quantity"`
	Price     float64 `gorm:"not null;default:0"        json:"price"`
	Image     string  `                                 json:"image"`
}

type ContactMessage struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"                           json:"id"`
	Name      string         `                                                          json:"name"`
	Email     string         `gorm:"index"                                              json:"email"`
	Phone     string         `                                                          json:"phone"`
	Address   string         `                                                          json:"address"`
	Message   string         `gorm:"type:text"                                          json:"message"`
	Status    string         `gorm:"not null;default:PENDING"                           json:"status"`
	CreatedAt time.Time      `gorm:"index"                                              json:"createdAt"`
	Images    []ContactImage `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"   json:"images"`
}

type ContactImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ContactID uint   `gorm:"index;not null"`
	ImagePath string `gorm:"not null"`
}

// MarshalJSON renders an attachment as its bare URL.
func (i ContactImage) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.ImagePath)
}

func (c *ContactMessage) ImagePaths() []string {
	out := make([]string, 0, len(c.Images))
	for _, img := range c.Images {
		out = append(out, img.ImagePath)
	}
	return out
}

type Review struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"                           json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_reviews_user_service"      json:"userId"`
	ServiceID        uint      `gorm:"not null;uniqueIndex:idx_reviews_user_service;index" json:"serviceId"`
	UserName         string    `                                                          json:"userName"`
	Rating           int       `gorm:"not null"                                           json:"rating"`
	Comment          string    `gorm:"type:text"                                          json:"comment"`
	ReviewImage      string    `                                                          json:"reviewImage"`
	VerifiedPurchase bool      `gorm:"not null;default:false"                             json:"verifiedPurchase"`
	HelpfulCount     int       `gorm:"not null;default:0"                                 json:"helpfulCount"`
	NotHelpfulCount  int       `gorm:"not null;default:0"                                 json:"notHelpfulCount"`
	CreatedAt        time.Time `                                                          json:"createdAt"`
	UpdatedAt        time.Time `                                                          json:"updatedAt"`
}

type ServiceItem struct {
	ServiceID   uint      `gorm:"primaryKey;autoIncrement;column:service_id"  json:"serviceId"`
	Name        string    `gorm:"not null"                                    json:"name"`
	Category    string    `gorm:"index"                                       json:"category"`
	Price       string    `                                                   json:"price"`
	Image       string    `                                                   json:"image"`
	Description string    `gorm:"type:text"                                   json:"description"`
	CreatedAt   time.Time `                                                   json:"createdAt"`
}

func (ServiceItem) TableName() string { return "services" }

type Art struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Title       string  `gorm:"not null"                  json:"title"`
	Category    string  `gorm:"not null;index"            json:"category"`
	Description string  `gorm:"size:2000"                 json:"description"`
	Price       float64 `                                 json:"price"`
	Status      string  `gorm:"not null;default:PENDING"  json:"status"`
	Image       string  `gorm:"size:1000"                 json:"image"`
	Tags        Tags    `                                 json:"tags"`
}

func (Art) TableName() string { return "artworks" }

// Tags is a postgres text[]; other dialects store the array literal as text.
type Tags pq.StringArray

func (t Tags) Value() (driver.Value, error) { return pq.StringArray(t).Value() }

func (t *Tags) Scan(src any) error { return (*pq.StringArray)(t).Scan(src) }

func (Tags) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Order{},
		&OrderItem{},
		&ContactMessage{},
		&ContactImage{},
		&Review{},
		&ServiceItem{},
		&Art{},
	}
}
