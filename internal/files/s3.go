// internal/files/s3.go
package files

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/commercekit/catalog-backend/internal/config"
	"github.com/commercekit/catalog-backend/internal/models"
)

const signedURLTTL = time.Hour

// S3Service stores file bytes in S3 behind presigned PUT URLs and keeps
// the bookkeeping rows in the database.
type S3Service struct {
	db       *gorm.DB
	s3Client *s3.S3
	bucket   string
	log      *logrus.Entry
}

func NewS3Service(db *gorm.DB, cfg *config.Config) (*S3Service, error) {
	svc := &S3Service{
		db:     db,
		bucket: cfg.AWS.S3Bucket,
		log:    logrus.WithField("component", "files.s3"),
	}

	if cfg.AWS.AccessKeyID == "" {
		// No credentials: keep the bookkeeping side working for local
		// development, presigning will fail loudly.
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

func (s *S3Service) CreateSignedURL(ctx context.Context, input CreateSignedURLInput) (*SignedURL, error) {
	if s.s3Client == nil {
		return nil, fmt.Errorf("S3 client not configured")
	}

	key := s.objectKey(input.DirectoryName, input.FileName)
	contentType := mime.TypeByExtension(filepath.Ext(input.FileName))

	expiresAt := time.Now().Add(signedURLTTL)
	file := &models.File{
		Path:      key,
		Name:      input.FileName,
		Type:      contentType,
		Meta:      models.JSONB(input.Meta),
		ExpiresAt: &expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	req, _ := s.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	putURL, err := req.Presign(signedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload URL: %w", err)
	}

	return &SignedURL{
		FileID:    file.ID,
		PutURL:    putURL,
		Type:      contentType,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *S3Service) FindFile(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load file %s: %w", fileID, err)
	}
	return &file, nil
}

func (s *S3Service) LinkFile(ctx context.Context, input LinkFileInput) (*models.File, error) {
	file, err := s.FindFile(ctx, input.FileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("file %s not found", input.FileID)
	}

	if file.ExpiresAt != nil && file.ExpiresAt.Before(time.Now()) {
		return nil, ErrFileExpired
	}

	updates := map[string]interface{}{
		"size":       input.Size,
		"type":       input.Type,
		"expires_at": nil,
	}
	if err := s.db.WithContext(ctx).Model(file).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to link file %s: %w", input.FileID, err)
	}

	file.Size = input.Size
	if input.Type != "" {
		file.Type = input.Type
	}
	file.ExpiresAt = nil
	return file, nil
}

func (s *S3Service) Delete(ctx context.Context, fileID uuid.UUID) error {
	file, err := s.FindFile(ctx, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return nil
	}

	if s.s3Client != nil {
		_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(file.Path),
		})
		if err != nil {
			return fmt.Errorf("failed to delete object %s: %w", file.Path, err)
		}
	}

	if err := s.db.WithContext(ctx).Delete(file).Error; err != nil {
		return fmt.Errorf("failed to delete file record %s: %w", fileID, err)
	}
	return nil
}

func (s *S3Service) objectKey(directory, fileName string) string {
	id := uuid.New()
	stamp := time.Now().Format("20060102")
	name := fmt.Sprintf("%s_%s%s", stamp, id.String()[:8], filepath.Ext(fileName))
	if directory != "" {
		return fmt.Sprintf("%s/%s", directory, name)
	}
	return name
}
