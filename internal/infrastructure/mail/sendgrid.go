package mail

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.elastic.co/apm"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer Mailer implementation on top of the sendgrid v3 API
type SendgridMailer struct {
	key  string
	from *sgmail.Email
}

var _ Mailer = &SendgridMailer{}

// NewSendgridMailer .
func NewSendgridMailer(key string, from mail.Address) *SendgridMailer {
	return &SendgridMailer{
		key:  key,
		from: sgmail.NewEmail(from.Name, from.Address),
	}
}

func (sm *SendgridMailer) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sm.from)
	m.Subject = msg.Subject
	m.AddPersonalizations(p)
	if msg.ReplyTo != nil {
		m.SetReplyTo(sgmail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Address))
	}
	m.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	if msg.HTMLBody != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}
	return m
}

// Send implement Mailer
func (sm *SendgridMailer) Send(ctx context.Context, msg *Message) error {
	apmSpan, _ := apm.StartSpan(ctx, "SendgridMailer.Send", "external")
	defer apmSpan.End()

	req := sendgrid.GetRequest(sm.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(sm.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sendgrid request")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid responded %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
