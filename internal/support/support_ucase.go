package support

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pot-code/learnhub/internal/infrastructure/locale"
	imail "github.com/pot-code/learnhub/internal/infrastructure/mail"
	"github.com/pot-code/learnhub/internal/infrastructure/uuid"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// SupportUseCaseImpl ...
type SupportUseCaseImpl struct {
	SupportRepository SupportRepository
	UUIDGenerator     uuid.Generator
	Formatter         *locale.Formatter
	Mailer            imail.Mailer
	Inbox             string // notified on every new ticket, empty disables notifications
	Logger            *zap.Logger

	dispatch func(func())
}

var _ SupportUseCase = &SupportUseCaseImpl{}

// NewSupportUseCase ...
func NewSupportUseCase(
	SupportRepository SupportRepository,
	UUIDGenerator uuid.Generator,
	Formatter *locale.Formatter,
	Mailer imail.Mailer,
	Inbox string,
	Logger *zap.Logger,
) *SupportUseCaseImpl {
	return &SupportUseCaseImpl{
		SupportRepository: SupportRepository,
		UUIDGenerator:     UUIDGenerator,
		Formatter:         Formatter,
		Mailer:            Mailer,
		Inbox:             Inbox,
		Logger:            Logger,
		dispatch:          func(f func()) { go f() },
	}
}

// Create store a ticket with open status and notify the support inbox
func (su *SupportUseCaseImpl) Create(ctx context.Context, userID string, post *TicketPost) (*TicketModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "SupportUseCaseImpl.Create", "service")
	defer apmSpan.End()

	id, err := su.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	ticket := &TicketModel{
		ID:          id,
		UserID:      userID,
		VideoID:     post.VideoID,
		Name:        strings.TrimSpace(post.Name),
		Email:       strings.TrimSpace(post.Email),
		RequestType: post.RequestType,
		Subject:     strings.TrimSpace(post.Subject),
		Message:     post.Message,
		Status:      TicketStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
	if err := su.SupportRepository.Insert(ctx, ticket); err != nil {
		return nil, err
	}
	ticket.FormattedCreatedAt = su.Formatter.DateTime(ticket.CreatedAt)
	su.notify(ticket)
	return ticket, nil
}

// List tickets of the user, newest first
func (su *SupportUseCaseImpl) List(ctx context.Context, userID, videoID string) ([]*TicketModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "SupportUseCaseImpl.List", "service")
	defer apmSpan.End()

	tickets, err := su.SupportRepository.ListByUser(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		t.FormattedCreatedAt = su.Formatter.DateTime(t.CreatedAt)
	}
	return tickets, nil
}

func (su *SupportUseCaseImpl) notify(ticket *TicketModel) {
	if su.Inbox == "" || su.Mailer == nil {
		return
	}
	msg := &imail.Message{
		To:      []mail.Address{{Name: "Suporte", Address: su.Inbox}},
		ReplyTo: &mail.Address{Name: ticket.Name, Address: ticket.Email},
		Subject: fmt.Sprintf("[%s] %s", ticket.RequestType, ticket.Subject),
		TextBody: fmt.Sprintf("Ticket: %s\nVideo: %s\nFrom: %s <%s>\n\n%s",
			ticket.ID, ticket.VideoID, ticket.Name, ticket.Email, ticket.Message),
	}
	su.dispatch(func() {
		if err := su.Mailer.Send(context.Background(), msg); err != nil {
			su.Logger.Warn("failed to notify support inbox", zap.String("ticket.id", ticket.ID), zap.Error(err))
		}
	})
}
