// Package mail delivers rendered salary slips over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	gomail "github.com/wneessen/go-mail"
)

var bodyTemplate = template.Must(template.New("slip").Parse(`<html>
    <head>
        <style>
            body { font-family: Arial, sans-serif; line-height: 1.6; }
            .container { width: 80%; margin: 0 auto; padding: 20px; }
            .header { background-color: #f8f8f8; padding: 10px; border-bottom: 2px solid #ddd; }
            .content { padding: 20px 0; }
            .footer { font-size: 12px; color: #777; padding-top: 20px; border-top: 1px solid #ddd; }
        </style>
    </head>
    <body>
        <div class="container">
            <div class="header">
                <h2>Salary Slip - {{.Month}} {{.Year}}</h2>
            </div>
            <div class="content">
                <p>Dear {{.Name}},</p>
                <p>Please find attached your salary slip for the month of {{.Month}} {{.Year}}.</p>
                <p>This is an automated email. Please do not reply to this message.</p>
                <p>If you have any queries regarding your salary slip, please contact the HR department.</p>
                <p>Thank you.</p>
            </div>
            <div class="footer">
                <p>This email and any files transmitted with it are confidential and intended solely for the use of the individual or entity to whom they are addressed.</p>
            </div>
        </div>
    </body>
</html>`))

// Sender transmits prepared messages. *gomail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Config holds the SMTP settings used to build the client.
type Config struct {
	Server   string
	Port     int
	UseTLS   bool
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPDelivery sends one email with the slip attached per record.
type SMTPDelivery struct {
	sender Sender
	from   string
}

var _ portssvc.DeliveryChannel = (*SMTPDelivery)(nil)

// NewSMTPDelivery builds a go-mail client from cfg.
func NewSMTPDelivery(cfg Config) (*SMTPDelivery, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(orDefault(cfg.Timeout, 30*time.Second)),
	}
	if cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return NewDeliveryWithSender(client, cfg.From), nil
}

// NewDeliveryWithSender wires an arbitrary Sender, mainly for tests.
func NewDeliveryWithSender(sender Sender, from string) *SMTPDelivery {
	return &SMTPDelivery{sender: sender, from: from}
}

// Deliver emails doc to the record's address.
func (d *SMTPDelivery) Deliver(ctx context.Context, record domain.SalaryRecord, doc domain.RenderedDocument) (string, error) {
	msg, err := d.buildMessage(record, doc)
	if err != nil {
		return "", fmt.Errorf("error sending email: %w", err)
	}
	if err := d.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("error sending email: %w", err)
	}
	return "Email sent successfully to " + record.Email, nil
}

func (d *SMTPDelivery) buildMessage(record domain.SalaryRecord, doc domain.RenderedDocument) (*gomail.Msg, error) {
	month := capitalize(record.Month)

	msg := gomail.NewMsg()
	if err := msg.From(d.from); err != nil {
		return nil, err
	}
	if err := msg.To(record.Email); err != nil {
		return nil, err
	}
	msg.SetDate()
	msg.Subject(fmt.Sprintf("Salary Slip for %s %d", month, record.Year))

	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, struct {
		Name  string
		Month string
		Year  int
	}{record.Name, month, record.Year})
	if err != nil {
		return nil, err
	}
	msg.SetBodyString(gomail.TypeTextHTML, body.String())
	msg.AttachFile(doc.Path, gomail.WithFileName(fmt.Sprintf("salary_slip_%s_%d.pdf", record.Month, record.Year)))

	return msg, nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
