// Package email delivers transactional mail for portal events.
package email

import "context"

// Sender delivers the portal's transactional emails.
type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail, salesPersonName, leadName, hospitalName string) error
	SendPartnerPointsApprovedEmail(ctx context.Context, toEmail, partnerName, leadStatus string, points int) error
	SendPartnerPointsRejectedEmail(ctx context.Context, toEmail, partnerName, leadStatus string) error
}

// NoopSender satisfies Sender without delivering anything. Used when email
// is disabled in the environment.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendPartnerPointsApprovedEmail(context.Context, string, string, string, int) error {
	return nil
}

func (NoopSender) SendPartnerPointsRejectedEmail(context.Context, string, string, string) error {
	return nil
}
