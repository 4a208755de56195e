package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"gscormer_backend/internal/config"
	"gscormer_backend/internal/model"
	"gscormer_backend/internal/util"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where uploaded SCORM packages live.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return "/" + p.Config.MinioBucket + "/" + filename
}

// StorageService stores and serves SCORM package archives.
type StorageService struct {
	Provider StorageProvider
	Scorms   *ScormService
}

func NewStorageService(cfg *config.Config, scorms *ScormService) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == config.StorageMinio {
		if p, err := NewMinioStorageProvider(&cfg.Storage); err == nil {
			provider = p
		}
	}
	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}
	return &StorageService{Provider: provider, Scorms: scorms}
}

// AttachPackage stores a package archive and links it to a catalog row.
// Only zip archives pass; the stored name is synthetic so re-uploads of
// the same source file never collide.
func (s *StorageService) AttachPackage(ctx context.Context, scormID uint, header *multipart.FileHeader) (*model.ScormMaster, error) {
	row, err := s.Scorms.Repo.FindByID(scormID)
	if err != nil {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}

	file, err := header.Open()
	if err != nil {
		return nil, util.ValidationError(err)
	}
	defer file.Close()

	contentType, err := util.ValidateMimeType(file, util.AllowedPackageMimeTypes)
	if err != nil {
		return nil, util.ValidationError(err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, util.ValidationError(err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".zip"
	}
	filename := fmt.Sprintf("packages/%s%s", uuid.New().String(), ext)

	url, err := s.Provider.Upload(ctx, filename, file, header.Size, contentType)
	if err != nil {
		return nil, util.PersistenceError("subir paquete", err)
	}

	if row.PackageFile != "" {
		_ = s.Provider.Delete(ctx, strings.TrimPrefix(row.PackageFile, "/uploads/"))
	}
	if err := s.Scorms.Repo.UpdateFields(scormID, map[string]interface{}{"scorm_paquete": url}); err != nil {
		return nil, util.PersistenceError("guardar paquete", err)
	}
	s.Scorms.InvalidateCache()
	return s.Scorms.Repo.FindByID(scormID)
}
