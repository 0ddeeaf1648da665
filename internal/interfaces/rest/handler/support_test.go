package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/pot-code/learnhub/internal/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSupportUseCase struct {
	mock.Mock
}

func (m *mockSupportUseCase) Create(ctx context.Context, userID string, post *support.TicketPost) (*support.TicketModel, error) {
	args := m.Called(ctx, userID, post)
	if r := args.Get(0); r != nil {
		return r.(*support.TicketModel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSupportUseCase) List(ctx context.Context, userID, videoID string) ([]*support.TicketModel, error) {
	args := m.Called(ctx, userID, videoID)
	if r := args.Get(0); r != nil {
		return r.([]*support.TicketModel), args.Error(1)
	}
	return nil, args.Error(1)
}

const ticketBody = `{"videoId":"v1","name":"Ana","email":"ana@example.com","requestType":"%s","subject":"Audio","message":"No sound"}`

func TestHandleCreateTicket(t *testing.T) {
	uc := new(mockSupportUseCase)
	uc.On("Create", mock.Anything, "u1", mock.AnythingOfType("*support.TicketPost")).
		Return(&support.TicketModel{ID: "t1", Status: support.TicketStatusOpen}, nil)

	c, rec := newContext(http.MethodPost, "/api/v1/video-support",
		strings.NewReader(strings.Replace(ticketBody, "%s", "tecnico", 1)))
	require.NoError(t, NewSupportHandler(uc, testJWT, testValidator).HandleCreateTicket(signedIn(c, "u1")))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got support.TicketModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "open", got.Status)
}

func TestHandleCreateTicket_UnknownRequestType(t *testing.T) {
	uc := new(mockSupportUseCase)
	c, rec := newContext(http.MethodPost, "/api/v1/video-support",
		strings.NewReader(strings.Replace(ticketBody, "%s", "elogio", 1)))
	require.NoError(t, NewSupportHandler(uc, testJWT, testValidator).HandleCreateTicket(signedIn(c, "u1")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var got RESTValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.InvalidParams, 1)
	assert.Equal(t, "requestType", got.InvalidParams[0].Domain)
}

func TestHandleListTickets_EmptyIsArray(t *testing.T) {
	uc := new(mockSupportUseCase)
	uc.On("List", mock.Anything, "u1", "v1").Return(nil, nil)

	c, rec := newContext(http.MethodGet, "/api/v1/video-support?videoId=v1", nil)
	require.NoError(t, NewSupportHandler(uc, testJWT, testValidator).HandleListTickets(signedIn(c, "u1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
