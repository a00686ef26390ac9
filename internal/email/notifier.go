package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/event"
)

// Notifier subscribes to auth domain events and sends the matching
// transactional emails. Delivery failures are logged, never propagated back
// to the flow that emitted the event.
type Notifier struct {
	sender      Sender
	frontEndURL string
	logger      *slog.Logger
}

func NewNotifier(sender Sender, frontEndURL string, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		frontEndURL: frontEndURL,
		logger:      logger.With("component", "mail_notifier"),
	}
}

// SubscribeTo registers the notifier's handlers on the bus.
func (n *Notifier) SubscribeTo(bus *event.Bus) {
	bus.Subscribe(domain.TopicUserRegistered, n.onUserRegistered)
	bus.Subscribe(domain.TopicPasswordResetAttempt, n.onPasswordResetAttempted)
}

func (n *Notifier) onUserRegistered(ctx context.Context, e event.Event) {
	ev, ok := e.(domain.UserRegistered)
	if !ok {
		n.logger.Error("unexpected event payload", "topic", e.Topic())
		return
	}

	link := fmt.Sprintf("%s/register/confirm/%s", n.frontEndURL, ev.RegistrationTokenValue)
	body := fmt.Sprintf(
		`<h4>Please click the following link to verify your account: <a href="%s">Verify Account</a></h4>`,
		link,
	)
	if err := n.sender.Send(ctx, ev.Email, "Registration Confirmation", body); err != nil {
		n.logger.Error("send registration email", "email", ev.Email, "error", err)
	}
}

func (n *Notifier) onPasswordResetAttempted(ctx context.Context, e event.Event) {
	ev, ok := e.(domain.PasswordResetAttempted)
	if !ok {
		n.logger.Error("unexpected event payload", "topic", e.Topic())
		return
	}

	link := fmt.Sprintf("%s/reset-password/confirm/%s", n.frontEndURL, ev.PasswordResetTokenValue)
	body := fmt.Sprintf(
		`<h4>Please click the following link to reset your password: <a href="%s">Reset Password</a></h4>`,
		link,
	)
	if err := n.sender.Send(ctx, ev.Email, "Password Reset", body); err != nil {
		n.logger.Error("send password reset email", "email", ev.Email, "error", err)
	}
}
