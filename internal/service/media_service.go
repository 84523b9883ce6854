package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	cfg "github.com/postgenio/api/configs"
	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/internal/repository"
)

// MediaService stores uploaded images in Cloudflare R2 and hands back a
// public URL usable as a post's image_url.
type MediaService struct {
	config cfg.Config
	ma     repository.MediaAssetRepository
}

func NewMediaService(cfg cfg.Config, ma repository.MediaAssetRepository) *MediaService {
	return &MediaService{config: cfg, ma: ma}
}

func (m *MediaService) r2Client() (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(m.config.R2.AccessKey, m.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", m.config.R2.AccountID))
	}), nil
}

func (m *MediaService) Upload(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.MediaAsset, error) {
	file, err := fh.Open()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("unable to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("unable to read uploaded file")
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, fmt.Errorf("only image uploads are supported")
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("unable to generate object key")
	}
	key := fmt.Sprintf("%d/%s.%s", userID, id, kind.Extension)

	if err := m.uploadToR2(ctx, key, data, kind.MIME.Value); err != nil {
		return nil, err
	}

	asset := &models.MediaAsset{
		UserID:      userID,
		FileName:    fh.Filename,
		ContentType: kind.MIME.Value,
		FileSize:    int64(len(data)),
		FileURL:     fmt.Sprintf("%s/%s", m.config.R2.PublicURL, key),
	}

	assetID, err := m.ma.Create(ctx, nil, asset)
	if err != nil {
		return nil, err
	}
	asset.ID = assetID

	return asset, nil
}

func (m *MediaService) uploadToR2(ctx context.Context, key string, file []byte, contentType string) error {
	client, err := m.r2Client()
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(m.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	_, err = client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
