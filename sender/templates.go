package sender

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"email_verify", "password_reset", "order_confirmed", "order_status"} {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
}

func render(page string, data any) (string, error) {
	tmpl, ok := pages[page]
	if !ok {
		return "", fmt.Errorf("unknown template %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("template render failed: %w", err)
	}
	return buf.String(), nil
}

type linkData struct {
	Name string
	Link string
}

// VerifyEmail is the account activation mail for a new customer.
func VerifyEmail(name, to, link string) (Message, error) {
	body, err := render("email_verify", linkData{Name: name, Link: link})
	return Message{Type: models.MailEmailVerify, To: to, Subject: "Verify your email", Body: body}, err
}

// PasswordReset is the reset-link mail; mailType tells admin resets from customer resets.
func PasswordReset(mailType, name, to, link string) (Message, error) {
	body, err := render("password_reset", linkData{Name: name, Link: link})
	return Message{Type: mailType, To: to, Subject: "Password Reset", Body: body}, err
}

// OrderMail renders the customer mail for an order event.
func OrderMail(event models.OrderEvent) (Message, error) {
	if event.EventType == models.EventOrderCreated {
		body, err := render("order_confirmed", event)
		return Message{
			Type:    models.MailOrderConfirmed,
			To:      event.Email,
			Subject: fmt.Sprintf("Order #%d confirmed", event.Invoice),
			Body:    body,
		}, err
	}
	body, err := render("order_status", event)
	return Message{
		Type:    models.MailOrderStatusEvent,
		To:      event.Email,
		Subject: fmt.Sprintf("Order #%d is %s", event.Invoice, event.Status),
		Body:    body,
	}, err
}
