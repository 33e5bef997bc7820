// utils/email.go
package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go-storefront/models"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

// Mailer delivers a single message through a transactional email API
type Mailer interface {
	Send(ctx context.Context, from, to, subject, htmlBody, textBody string) error
}

// SendGridMailer sends email through SendGrid
type SendGridMailer struct {
	client *sendgrid.Client
}

func NewSendGridMailer(apiKey string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey)}
}

func (m *SendGridMailer) Send(ctx context.Context, from, to, subject, htmlBody, textBody string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("Storefront", from),
		subject,
		mail.NewEmail("", to),
		textBody,
		htmlBody,
	)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}
	return nil
}

// PostmarkMailer sends email through Postmark
type PostmarkMailer struct {
	client *postmark.Client
}

func NewPostmarkMailer(serverToken string) *PostmarkMailer {
	return &PostmarkMailer{client: postmark.NewClient(serverToken, "")}
}

func (m *PostmarkMailer) Send(_ context.Context, from, to, subject, htmlBody, textBody string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     from,
		To:       to,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	return nil
}

// NewMailer picks the provider implementation by name
func NewMailer(provider, apiKey string) (Mailer, error) {
	switch provider {
	case "sendgrid":
		return NewSendGridMailer(apiKey), nil
	case "postmark":
		return NewPostmarkMailer(apiKey), nil
	}
	return nil, fmt.Errorf("unknown email provider %q", provider)
}

// EmailService renders and sends the transactional emails of the shop
type EmailService struct {
	mailer  Mailer
	sender  string
	admin   string
	baseURL string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(mailer Mailer, sender, admin, baseURL string) *EmailService {
	return &EmailService{
		mailer:  mailer,
		sender:  sender,
		admin:   admin,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	if toEmail == "" {
		return fmt.Errorf("failed to send email: empty recipient")
	}
	if err := es.mailer.Send(ctx, es.sender, toEmail, subject, htmlContent, stripTags(htmlContent)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.WithFields(log.Fields{"to": toEmail, "subject": subject}).Info("Email sent")
	return nil
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(ctx context.Context, toEmail, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("%s/verify?token=%s", es.baseURL, token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)
	return es.SendEmail(ctx, toEmail, subject, htmlContent)
}

// SendWelcomeEmail greets a newly registered customer
func (es *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	subject := "Welcome to the crew"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your account is ready. New drops land first in your inbox.<br><br><a href=\"%s/products\">Shop the collection</a>",
		html.EscapeString(name),
		es.baseURL,
	)
	return es.SendEmail(ctx, toEmail, subject, htmlContent)
}

// SendOrderConfirmationEmail sends an order confirmation email to the buyer
func (es *EmailService) SendOrderConfirmationEmail(ctx context.Context, order models.Order) error {
	subject := fmt.Sprintf("Order Confirmation #%s", order.Number)
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order <strong>#%s</strong> has been placed successfully.<br><br>%s<br>Subtotal: %s<br>%sShipping (%s): %s<br>Total Amount: <strong>%s</strong><br>Payment Method: <strong>%s</strong><br><br>Estimated delivery: %s - %s<br><br>Thank you for shopping with us!",
		html.EscapeString(order.Shipping.FirstName),
		order.Number,
		itemsTable(order),
		FormatPrice(order.Currency, order.Subtotal),
		discountLine(order),
		html.EscapeString(order.ShippingMethod),
		FormatPrice(order.Currency, order.ShippingCost),
		FormatPrice(order.Currency, order.TotalAmount),
		paymentLabel(order.PaymentMethod),
		order.DeliveryDateMin,
		order.DeliveryDateMax,
	)
	return es.SendEmail(ctx, order.Shipping.Email, subject, htmlContent)
}

// SendShippingNoticeEmail tells the buyer the parcel left the warehouse
func (es *EmailService) SendShippingNoticeEmail(ctx context.Context, order models.Order) error {
	subject := fmt.Sprintf("Your order #%s is on its way", order.Number)
	tracking := "Tracking will be available soon."
	if order.TrackingNumber != "" {
		tracking = fmt.Sprintf("Tracking number: <strong>%s</strong>", html.EscapeString(order.TrackingNumber))
	}
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your order <strong>#%s</strong> has been shipped via %s.<br>%s<br><br>Thank you for shopping with us!",
		html.EscapeString(order.Shipping.FirstName),
		order.Number,
		html.EscapeString(order.ShippingMethod),
		tracking,
	)
	return es.SendEmail(ctx, order.Shipping.Email, subject, htmlContent)
}

// SendCancellationEmail tells the buyer the order was cancelled
func (es *EmailService) SendCancellationEmail(ctx context.Context, order models.Order) error {
	subject := fmt.Sprintf("Order #%s cancelled", order.Number)
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your order <strong>#%s</strong> (%s) has been cancelled. If you paid by card, the refund will reach your account within a few days.<br><br>Questions? Just reply to this email.",
		html.EscapeString(order.Shipping.FirstName),
		order.Number,
		FormatPrice(order.Currency, order.TotalAmount),
	)
	return es.SendEmail(ctx, order.Shipping.Email, subject, htmlContent)
}

// SendAdminAlertEmail notifies the shop owner of a new order
func (es *EmailService) SendAdminAlertEmail(ctx context.Context, order models.Order) error {
	if es.admin == "" {
		return nil
	}
	subject := fmt.Sprintf("New order #%s - %s", order.Number, FormatPrice(order.Currency, order.TotalAmount))
	htmlContent := fmt.Sprintf(
		"<strong>New order #%s</strong><br><br>Customer: %s (%s, %s)<br>Destination: %s, %s<br>Items: %d<br>Total: <strong>%s</strong><br>Payment: %s<br><br><a href=\"%s/admin/orders\">Open the back office</a>",
		order.Number,
		html.EscapeString(order.Shipping.FullName()),
		html.EscapeString(order.Shipping.Email),
		html.EscapeString(order.Shipping.Phone),
		html.EscapeString(order.Shipping.City),
		order.Shipping.Country,
		itemCount(order.Items),
		FormatPrice(order.Currency, order.TotalAmount),
		paymentLabel(order.PaymentMethod),
		es.baseURL,
	)
	return es.SendEmail(ctx, es.admin, subject, htmlContent)
}

func itemsTable(order models.Order) string {
	var b strings.Builder
	for _, it := range order.Items {
		fmt.Fprintf(&b, "%d x %s (%s, %s) - %s<br>",
			it.Quantity, html.EscapeString(it.Name), html.EscapeString(it.Size), html.EscapeString(it.Color), FormatPrice(order.Currency, it.LineTotal()))
	}
	return b.String()
}

func itemCount(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func discountLine(order models.Order) string {
	if order.Discount <= 0 {
		return ""
	}
	return fmt.Sprintf("Discount (%s): -%s<br>", html.EscapeString(order.PromoCode), FormatPrice(order.Currency, order.Discount))
}

func paymentLabel(method string) string {
	switch method {
	case models.PaymentMethodCard:
		return "Card"
	case models.PaymentMethodCashOnDelivery:
		return "Cash on delivery"
	}
	return method
}


func stripTags(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}
