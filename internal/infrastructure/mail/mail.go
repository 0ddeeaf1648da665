package mail

import (
	"context"
	"net/mail"
)

// Message plain e-mail message
type Message struct {
	To       []mail.Address
	ReplyTo  *mail.Address
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
