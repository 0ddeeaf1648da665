package profile

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
)

// ProfileSQL ProfileRepository on a relational store
type ProfileSQL struct {
	Conn driver.ITransactionalDB
}

var _ ProfileRepository = &ProfileSQL{}

func NewProfileRepository(Conn driver.ITransactionalDB) *ProfileSQL {
	return &ProfileSQL{Conn}
}

// FindByID returns nil when missing
func (repo *ProfileSQL) FindByID(ctx context.Context, id string) (*ProfileModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    id, full_name, email, avatar_url, company_id, role
FROM
    profiles
WHERE
    id = $1
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query profile")
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, errors.Wrap(rows.Err(), "query profile")
	}
	p := new(ProfileModel)
	if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.AvatarURL, &p.CompanyID, &p.Role); err != nil {
		return nil, errors.Wrap(err, "scan profile")
	}
	return p, nil
}

func (repo *ProfileSQL) UpdateAvatar(ctx context.Context, id, url string) error {
	res, err := repo.Conn.ExecContext(ctx, `
UPDATE profiles SET avatar_url = $1 WHERE id = $2
	`, url, id)
	if err != nil {
		return errors.Wrap(err, "update avatar")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
