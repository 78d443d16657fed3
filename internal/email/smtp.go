package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadAssignedEmail(ctx context.Context, toEmail, salesPersonName, leadName, hospitalName string) error {
	subject := fmt.Sprintf(subjectLeadAssignedFmt, leadName)
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:   "New lead assigned",
			Heading: "New lead assigned",
		},
		SalesPersonName: salesPersonName,
		LeadName:        leadName,
		HospitalName:    hospitalName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendPartnerPointsApprovedEmail(ctx context.Context, toEmail, partnerName, leadStatus string, points int) error {
	content, err := renderEmailTemplate("partner_points_approved.html", partnerPointsApprovedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Referral rate approved",
			Heading: "Referral rate approved",
		},
		PartnerName: partnerName,
		LeadStatus:  leadStatus,
		Points:      points,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPartnerPointsApproved, content)
}

func (s *SMTPSender) SendPartnerPointsRejectedEmail(ctx context.Context, toEmail, partnerName, leadStatus string) error {
	content, err := renderEmailTemplate("partner_points_rejected.html", partnerPointsRejectedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Referral rate update",
			Heading: "Referral rate update",
		},
		PartnerName: partnerName,
		LeadStatus:  leadStatus,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPartnerPointsRejected, content)
}

// Compile-time check that SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)
