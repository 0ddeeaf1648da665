package profile

import (
	"context"
	"errors"

	"github.com/pot-code/learnhub/internal/infrastructure/storage"
)

// ErrProfileNotFound no profile for the authenticated identity
var ErrProfileNotFound = errors.New("profile not found")

// AvatarDir object storage directory for avatars
const AvatarDir = "avatars"

// ProfileModel profiles row
type ProfileModel struct {
	ID        string  `json:"id"`
	FullName  string  `json:"fullName"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl"`
	CompanyID *string `json:"companyId"`
	Role      string  `json:"role"`
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*ProfileModel, error)
	UpdateAvatar(ctx context.Context, id, url string) error
}

type ProfileUseCase interface {
	Current(ctx context.Context, id string) (*ProfileModel, error)
	UploadAvatar(ctx context.Context, id string, file *storage.File) (string, error)
}
