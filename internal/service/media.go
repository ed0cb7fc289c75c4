package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/krakosik/runway/internal/client"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/sirupsen/logrus"
)

// AvatarFolder is the upload folder whose images become the profile photo.
const AvatarFolder = "avatar"

type MediaService interface {
	UploadImage(ctx context.Context, uid, folder, fileName, contentType string, body io.Reader) (dto.ImageResponse, error)
	DeleteImage(ctx context.Context, uid, folder, fileName string) error
}

type mediaService struct {
	objectStore    client.ObjectStore
	profileService ProfileService
}

func newMediaService(objectStore client.ObjectStore, profileService ProfileService) MediaService {
	return &mediaService{
		objectStore:    objectStore,
		profileService: profileService,
	}
}

func imagePath(uid, folder, fileName string) (string, error) {
	for _, segment := range []string{uid, folder, fileName} {
		if segment == "" || segment == "." || segment == ".." || strings.ContainsAny(segment, `/\`) {
			return "", fmt.Errorf("%w: invalid path segment %q", dto.ErrInvalidArgument, segment)
		}
	}
	return path.Join("users", uid, folder, fileName), nil
}

func (m *mediaService) UploadImage(ctx context.Context, uid, folder, fileName, contentType string, body io.Reader) (dto.ImageResponse, error) {
	if m.objectStore == nil {
		return dto.ImageResponse{}, fmt.Errorf("%w: object storage is not configured", dto.ErrUnavailable)
	}
	objectPath, err := imagePath(uid, folder, fileName)
	if err != nil {
		return dto.ImageResponse{}, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return dto.ImageResponse{}, fmt.Errorf("%w: unsupported content type %q", dto.ErrInvalidArgument, contentType)
	}

	url, err := m.objectStore.Upload(ctx, objectPath, contentType, body)
	if err != nil {
		return dto.ImageResponse{}, err
	}

	if folder == AvatarFolder {
		if _, err := m.profileService.UpdateProfile(ctx, uid, model.ProfileUpdate{PhotoURL: &url}); err != nil {
			return dto.ImageResponse{}, err
		}
	}

	logrus.Infof("Uploaded %s", objectPath)
	return dto.ImageResponse{URL: url, Path: objectPath}, nil
}

func (m *mediaService) DeleteImage(ctx context.Context, uid, folder, fileName string) error {
	if m.objectStore == nil {
		return fmt.Errorf("%w: object storage is not configured", dto.ErrUnavailable)
	}
	objectPath, err := imagePath(uid, folder, fileName)
	if err != nil {
		return err
	}
	return m.objectStore.Delete(ctx, objectPath)
}
