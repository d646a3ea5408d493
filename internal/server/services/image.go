package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	sc "github.com/VictoryTek/humidor-sub001/internal/server/config"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageService attaches images to humidors and cigars. The server never
// proxies image bytes: clients upload and download directly against
// S3-compatible storage using short-lived presigned URLs, and the server
// records only the storage key. Attaching needs the same tier as mutating
// the object itself.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
	config      *sc.Config
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, access *AccessService, cfg *sc.Config) *ImageService {
	return &ImageService{db: db, repomanager: m, access: access, config: cfg}
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("images/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ImageService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *ImageService) presignedPutURL(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := randomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

func (s *ImageService) presignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// BeginHumidorUpload reserves a storage key for the humidor's image and
// returns a presigned PUT URL. The key is bound to the humidor immediately;
// a client that never completes the upload just leaves a dangling key.
// Needs the full tier, same as renaming the humidor.
func (s *ImageService) BeginHumidorUpload(ctx context.Context, actor *models.User, humidorID string) (string, error) {
	var url string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, err := s.access.PermissionFor(ctx, tx, actor.ID, humidorID)
		if err != nil {
			return err
		}
		if !level.CanView() {
			return common.ErrorNotFound
		}
		if !level.CanManage() {
			return common.ErrorForbidden
		}

		key, putURL, err := s.presignedPutURL(ctx)
		if err != nil {
			return fmt.Errorf("presign failed: %w", err)
		}

		if err := s.repomanager.Humidors(tx).SetImageKey(ctx, humidorID, key); err != nil {
			return err
		}
		url = putURL
		return nil
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

// BeginCigarUpload is the cigar counterpart; needs the edit tier, same as
// updating the cigar.
func (s *ImageService) BeginCigarUpload(ctx context.Context, actor *models.User, cigarID string) (string, error) {
	var url string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, _, err := s.access.PermissionForCigar(ctx, tx, actor.ID, cigarID)
		if err != nil {
			return err
		}
		if !level.CanView() {
			return common.ErrorNotFound
		}
		if !level.CanEdit() {
			return common.ErrorForbidden
		}

		key, putURL, err := s.presignedPutURL(ctx)
		if err != nil {
			return fmt.Errorf("presign failed: %w", err)
		}

		if err := s.repomanager.Cigars(tx).SetImageKey(ctx, cigarID, key); err != nil {
			return err
		}
		url = putURL
		return nil
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

// HumidorImageURL returns a presigned GET URL for the humidor's image.
// View access suffices; a humidor without an image is NotFound.
func (s *ImageService) HumidorImageURL(ctx context.Context, actor *models.User, humidorID string) (string, error) {
	level, err := s.access.PermissionFor(ctx, s.db, actor.ID, humidorID)
	if err != nil {
		return "", err
	}
	if !level.CanView() {
		return "", common.ErrorNotFound
	}

	humidor, err := s.repomanager.Humidors(s.db).GetByID(ctx, humidorID)
	if err != nil {
		return "", err
	}
	if humidor.ImageKey == "" {
		return "", common.ErrorNotFound
	}

	return s.presignedGetURL(ctx, humidor.ImageKey)
}

// CigarImageURL returns a presigned GET URL for the cigar's image.
func (s *ImageService) CigarImageURL(ctx context.Context, actor *models.User, cigarID string) (string, error) {
	level, cigar, err := s.access.PermissionForCigar(ctx, s.db, actor.ID, cigarID)
	if err != nil {
		return "", err
	}
	if !level.CanView() {
		return "", common.ErrorNotFound
	}
	if cigar.ImageKey == "" {
		return "", common.ErrorNotFound
	}

	return s.presignedGetURL(ctx, cigar.ImageKey)
}
