package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/kalakriti/backend/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrMailDisabled means no SMTP credentials are configured.
var ErrMailDisabled = errors.New("mail: not configured")

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

type deliverFunc func(ctx context.Context, msg *gomail.Msg) error

type Mailer struct {
	cfg     SMTPConfig
	deliver deliverFunc
}

func NewMailer(cfg SMTPConfig) *Mailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	m := &Mailer{cfg: cfg}
	m.deliver = m.dialAndSend
	return m
}

// Send delivers msg. The SMTP session is torn down when ctx is done.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.Username == "" {
		return ErrMailDisabled
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	out, err := m.build(msg)
	if err != nil {
		return fmt.Errorf("mail: build: %w", err)
	}
	if err := m.deliver(ctx, out); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	port, err := strconv.Atoi(m.cfg.Port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", m.cfg.Port, err)
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTimeout(30 * time.Second),
	}
	if port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *Mailer) build(msg Message) (*gomail.Msg, error) {
	out := gomail.NewMsg()

	var err error
	if m.cfg.FromName != "" {
		err = out.FromFormat(m.cfg.FromName, m.cfg.From)
	} else {
		err = out.From(m.cfg.From)
	}
	if err != nil {
		return nil, err
	}
	if err := out.To(msg.To...); err != nil {
		return nil, err
	}
	out.Subject(msg.Subject)

	contentType := gomail.TypeTextPlain
	if msg.HTML {
		contentType = gomail.TypeTextHTML
	}
	out.SetBodyString(contentType, msg.Body)
	return out, nil
}

type itemView struct {
	Name      string
	Quantity  int
	Price     float64
	LineTotal float64
}

type orderView struct {
	ID            uint
	Date          string
	Items         []itemView
	Total         float64
	CustomerName  string
	Address       string
	Phone         string
	PaymentMethod string
}

func newOrderView(o models.Order) orderView {
	v := orderView{
		ID:            o.ID,
		Date:          "Today",
		Total:         o.TotalPrice,
		CustomerName:  o.CustomerName,
		Address:       o.Address,
		Phone:         o.Phone,
		PaymentMethod: paymentLabel(o.PaymentMethod),
	}
	if !o.CreatedAt.IsZero() {
		v.Date = o.CreatedAt.Format("02 Jan 2006")
	}
	for _, it := range o.Items {
		name := it.Name
		if name == "" {
			name = "Art Piece"
		}
		v.Items = append(v.Items, itemView{
			Name:      name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: it.Price * float64(it.Quantity),
		})
	}
	return v
}

func paymentLabel(method string) string {
	switch strings.ToUpper(method) {
	case "", models.PaymentCOD:
		return "💵 Cash on Delivery"
	case models.PaymentOnline:
		return "💳 Online Payment"
	default:
		return method
	}
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func OrderConfirmationMail(o models.Order) (Message, error) {
	body, err := render("order_confirmation.html", newOrderView(o))
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{o.UserEmail},
		Subject: fmt.Sprintf("Order Confirmation - Kalakriti #%d", o.ID),
		Body:    body,
		HTML:    true,
	}, nil
}

func OrderShippedMail(o models.Order) (Message, error) {
	body, err := render("order_shipped.html", newOrderView(o))
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{o.UserEmail},
		Subject: fmt.Sprintf("Your Order Has Been Shipped - Kalakriti #%d", o.ID),
		Body:    body,
		HTML:    true,
	}, nil
}

func OrderDeliveredMail(o models.Order) (Message, error) {
	body, err := render("order_delivered.html", newOrderView(o))
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{o.UserEmail},
		Subject: fmt.Sprintf("Order Delivered - Kalakriti #%d", o.ID),
		Body:    body,
		HTML:    true,
	}, nil
}

func ReplyMail(to, text string) Message {
	return Message{
		To:      []string{to},
		Subject: "Reply from Kalakriti",
		Body:    text,
	}
}
