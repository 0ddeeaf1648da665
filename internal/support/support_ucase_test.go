package support

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pot-code/learnhub/internal/infrastructure/locale"
	imail "github.com/pot-code/learnhub/internal/infrastructure/mail"
	"github.com/pot-code/learnhub/internal/infrastructure/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Insert(ctx context.Context, ticket *TicketModel) error {
	return m.Called(ctx, ticket).Error(0)
}

func (m *mockRepository) ListByUser(ctx context.Context, userID, videoID string) ([]*TicketModel, error) {
	args := m.Called(ctx, userID, videoID)
	if l := args.Get(0); l != nil {
		return l.([]*TicketModel), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg *imail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func newUseCase(repo SupportRepository, mailer imail.Mailer, inbox string) *SupportUseCaseImpl {
	uc := NewSupportUseCase(repo, uuid.RandomGenerator{}, locale.NewFormatter("UTC"), mailer, inbox, zap.NewNop())
	uc.dispatch = func(f func()) { f() }
	return uc
}

func validPost() *TicketPost {
	return &TicketPost{
		VideoID:     "v1",
		Name:        " Ana ",
		Email:       "ana@example.com",
		RequestType: RequestTechnical,
		Subject:     "Video does not load",
		Message:     "It stops at 0:10",
	}
}

func TestCreate_OpensTicketAndNotifies(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*support.TicketModel")).Return(nil)
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg *imail.Message) bool {
		return msg.Subject == "[tecnico] Video does not load" &&
			msg.To[0].Address == "support@learnhub.local" &&
			msg.ReplyTo.Address == "ana@example.com"
	})).Return(nil)

	ticket, err := newUseCase(repo, mailer, "support@learnhub.local").Create(context.Background(), "u1", validPost())
	require.NoError(t, err)
	assert.Equal(t, TicketStatusOpen, ticket.Status)
	assert.Equal(t, "u1", ticket.UserID)
	assert.Equal(t, "Ana", ticket.Name)
	assert.NotEmpty(t, ticket.ID)
	assert.NotEmpty(t, ticket.FormattedCreatedAt)
	mailer.AssertExpectations(t)
}

func TestCreate_MailFailureDoesNotFail(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("sendgrid down"))

	_, err := newUseCase(repo, mailer, "support@learnhub.local").Create(context.Background(), "u1", validPost())
	assert.NoError(t, err)
}

func TestCreate_WithoutInboxSkipsMail(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	mailer := new(mockMailer)

	_, err := newUseCase(repo, mailer, "").Create(context.Background(), "u1", validPost())
	require.NoError(t, err)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCreate_StoreError(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("boom"))
	mailer := new(mockMailer)

	_, err := newUseCase(repo, mailer, "support@learnhub.local").Create(context.Background(), "u1", validPost())
	assert.EqualError(t, err, "boom")
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestList_FormatsTimestamps(t *testing.T) {
	newer := &TicketModel{ID: "t2", CreatedAt: time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)}
	older := &TicketModel{ID: "t1", CreatedAt: time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)}
	repo := new(mockRepository)
	repo.On("ListByUser", mock.Anything, "u1", "").Return([]*TicketModel{newer, older}, nil)

	tickets, err := newUseCase(repo, nil, "").List(context.Background(), "u1", "")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "t2", tickets[0].ID)
	assert.Contains(t, tickets[0].FormattedCreatedAt, "17:30")
	assert.Contains(t, tickets[1].FormattedCreatedAt, "09:05")
}
