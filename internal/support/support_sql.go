package support

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
)

// SupportSQL SupportRepository on a relational store
type SupportSQL struct {
	Conn driver.ITransactionalDB
}

var _ SupportRepository = &SupportSQL{}

func NewSupportRepository(Conn driver.ITransactionalDB) *SupportSQL {
	return &SupportSQL{Conn}
}

func (repo *SupportSQL) Insert(ctx context.Context, ticket *TicketModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO video_support_requests
    (id, user_id, video_id, name, email, request_type, subject, message, status, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, ticket.ID, ticket.UserID, ticket.VideoID, ticket.Name, ticket.Email,
		ticket.RequestType, ticket.Subject, ticket.Message, ticket.Status, ticket.CreatedAt)
	return errors.Wrap(err, "insert support request")
}

func (repo *SupportSQL) ListByUser(ctx context.Context, userID, videoID string) ([]*TicketModel, error) {
	query := `
SELECT
    id, user_id, video_id, name, email, request_type, subject, message, status, created_at
FROM
    video_support_requests
WHERE
    user_id = $1`
	args := []interface{}{userID}
	if videoID != "" {
		query += ` AND video_id = $2`
		args = append(args, videoID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := repo.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query support requests")
	}
	defer rows.Close()

	var result []*TicketModel
	for rows.Next() {
		item := new(TicketModel)
		err := rows.Scan(&item.ID, &item.UserID, &item.VideoID, &item.Name, &item.Email,
			&item.RequestType, &item.Subject, &item.Message, &item.Status, &item.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan support request")
		}
		result = append(result, item)
	}
	return result, errors.Wrap(rows.Err(), "query support requests")
}
