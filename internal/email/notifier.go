// Package email renders and sends the transactional mail of the account
// review lifecycle.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoRecipient is returned when a send is attempted without an address.
var ErrNoRecipient = errors.New("email recipient is empty")

const noReasonText = "No reason was provided."

var templates = template.Must(template.New("mail").Parse(`
{{define "agent_invite"}}<p>Hello,</p>
<p>Your agent account has been approved. You can now browse and book supplier inventory.</p>
<p><a href="{{.Link}}">Create your password</a> to sign in for the first time.</p>
<p>If the button does not work, copy this link into your browser:<br>{{.Link}}</p>{{end}}

{{define "supplier_welcome"}}<p>Welcome aboard,</p>
<p>Your supplier account has been verified and your listings can now be offered to our agent network.</p>
<p><a href="{{.Link}}">Create your password</a> to access the supplier dashboard.</p>
<p>If the button does not work, copy this link into your browser:<br>{{.Link}}</p>{{end}}

{{define "supplier_rejection"}}<p>Hello,</p>
<p>After reviewing your supplier application we are unable to approve it at this time.</p>
<p><strong>Reason:</strong> {{.Reason}}</p>
<p>Any active subscription has been cancelled and eligible payments refunded. You are welcome to update your details and apply again.</p>{{end}}
`))

// Notifier sends the review lifecycle emails. Every method reports failure
// through its error and never panics.
type Notifier struct {
	transport Transport
	log       zerolog.Logger
}

// NewNotifier creates a notifier on top of a transport.
func NewNotifier(transport Transport, log zerolog.Logger) *Notifier {
	return &Notifier{transport: transport, log: log}
}

// SendInviteEmail sends the approved-agent invite with the password link.
func (n *Notifier) SendInviteEmail(ctx context.Context, to, link string) error {
	return n.send(ctx, to, "Your agent account has been approved", "agent_invite", map[string]string{"Link": link})
}

// SendSupplierWelcomeEmail sends the approved-supplier welcome with the password link.
func (n *Notifier) SendSupplierWelcomeEmail(ctx context.Context, to, link string) error {
	return n.send(ctx, to, "Welcome! Your supplier account is verified", "supplier_welcome", map[string]string{"Link": link})
}

// SendRejectionEmail tells a supplier why the application was declined.
func (n *Notifier) SendRejectionEmail(ctx context.Context, to, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = noReasonText
	}
	return n.send(ctx, to, "Update on your supplier application", "supplier_rejection", map[string]string{"Reason": reason})
}

func (n *Notifier) send(ctx context.Context, to, subject, name string, data interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("email %s panicked: %v", name, r)
		}
	}()

	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := render(name, data)
	if err != nil {
		return err
	}

	if err := n.transport.Send(to, subject, body); err != nil {
		return fmt.Errorf("send %s email: %w", name, err)
	}

	n.log.Debug().Str("template", name).Str("to", to).Msg("email sent")
	return nil
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
