package support

import (
	"context"
	"time"
)

// TicketStatusOpen status of a new ticket
const TicketStatusOpen = "open"

// request types
const (
	RequestQuestion   = "duvida"
	RequestTechnical  = "tecnico"
	RequestSuggestion = "sugestao"
	RequestOther      = "outro"
)

// TicketModel video_support_requests row
type TicketModel struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	VideoID            string    `json:"videoId"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	RequestType        string    `json:"requestType"`
	Subject            string    `json:"subject"`
	Message            string    `json:"message"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	FormattedCreatedAt string    `json:"formattedCreatedAt"`
}

// TicketPost .
type TicketPost struct {
	VideoID     string `json:"videoId" validate:"required"`
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	RequestType string `json:"requestType" validate:"required,oneof=duvida tecnico sugestao outro"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,max=5000"`
}

type SupportRepository interface {
	Insert(ctx context.Context, ticket *TicketModel) error
	// ListByUser newest first, videoID narrows the list when not empty
	ListByUser(ctx context.Context, userID, videoID string) ([]*TicketModel, error)
}

type SupportUseCase interface {
	Create(ctx context.Context, userID string, post *TicketPost) (*TicketModel, error)
	List(ctx context.Context, userID, videoID string) ([]*TicketModel, error)
}
