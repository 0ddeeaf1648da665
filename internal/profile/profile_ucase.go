package profile

import (
	"context"

	"github.com/pot-code/learnhub/internal/infrastructure/storage"
	"go.elastic.co/apm"
)

// ProfileUseCaseImpl ...
type ProfileUseCaseImpl struct {
	ProfileRepository ProfileRepository
	ObjectStorage     storage.ObjectStorage
}

var _ ProfileUseCase = &ProfileUseCaseImpl{}

// NewProfileUseCase ...
func NewProfileUseCase(ProfileRepository ProfileRepository, ObjectStorage storage.ObjectStorage) *ProfileUseCaseImpl {
	return &ProfileUseCaseImpl{
		ProfileRepository: ProfileRepository,
		ObjectStorage:     ObjectStorage,
	}
}

// Current profile of the verified identity
func (pu *ProfileUseCaseImpl) Current(ctx context.Context, id string) (*ProfileModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "ProfileUseCaseImpl.Current", "service")
	defer apmSpan.End()

	p, err := pu.ProfileRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// UploadAvatar store the image and point the profile to it
func (pu *ProfileUseCaseImpl) UploadAvatar(ctx context.Context, id string, file *storage.File) (string, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "ProfileUseCaseImpl.UploadAvatar", "service")
	defer apmSpan.End()

	url, err := pu.ObjectStorage.Upload(ctx, file, AvatarDir, id)
	if err != nil {
		return "", err
	}
	if err := pu.ProfileRepository.UpdateAvatar(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}
