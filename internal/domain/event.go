package domain

// Event topics consumed by the mail notifier.
const (
	TopicUserRegistered       = "auth.user_registered"
	TopicPasswordResetAttempt = "auth.password_reset_attempt"
)

// UserRegistered is emitted after a successful registration (create or
// claim path) so the notifier can send the confirmation link.
type UserRegistered struct {
	Email                  string
	RegistrationTokenValue string
}

func (UserRegistered) Topic() string { return TopicUserRegistered }

// PasswordResetAttempted is emitted after a reset token is issued for an
// existing verified account.
type PasswordResetAttempted struct {
	Email                   string
	PasswordResetTokenValue string
}

func (PasswordResetAttempted) Topic() string { return TopicPasswordResetAttempt }
