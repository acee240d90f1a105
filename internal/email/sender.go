// Package email sends transactional mail to citizens over SMTP.
package email

import "context"

type Sender interface {
	// SendWelcomeEmail greets a newly registered citizen.
	SendWelcomeEmail(ctx context.Context, toEmail, firstName string) error
	// SendStatusChangedEmail informs the reporter that their report moved
	// to a new workflow status. resolutionNote may be empty.
	SendStatusChangedEmail(ctx context.Context, toEmail, reportTitle, newStatus, resolutionNote string) error
}
