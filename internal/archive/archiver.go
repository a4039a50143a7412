// Package archive uploads delivered decks to Cloudflare R2 object storage.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bilgisen/technews/internal/config"
	"github.com/bilgisen/technews/internal/logger"
)

const pdfContentType = "application/pdf"

// objectPutter is the slice of the S3 client the archiver uses.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver stores decks in a bucket. A zero-value client disables archiving.
type Archiver struct {
	client objectPutter
	bucket string
}

// NewArchiver builds an R2 client when credentials are configured and a
// disabled archiver otherwise.
func NewArchiver(ctx context.Context, cfg *config.Config) (*Archiver, error) {
	log := logger.WithComponent("archive")
	if !cfg.ArchiveEnabled() {
		log.Info().Msg("R2 archiving disabled")
		return &Archiver{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})

	log.Info().
		Str("endpoint", cfg.R2Endpoint).
		Str("bucket", cfg.R2Bucket).
		Msg("R2 archiver initialized")

	return &Archiver{client: client, bucket: cfg.R2Bucket}, nil
}

// Enabled reports whether uploads happen.
func (a *Archiver) Enabled() bool {
	return a.client != nil
}

// ObjectKey is the bucket key for a deck delivered on day.
// Format: decks/{year}/{month}/{day}/{file}
func ObjectKey(day time.Time, deckPath string) string {
	return path.Join("decks", day.UTC().Format("2006/01/02"), filepath.Base(deckPath))
}

// Archive uploads the deck and returns its key, or "" when disabled.
func (a *Archiver) Archive(ctx context.Context, deckPath string, day time.Time) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	if deckPath == "" {
		return "", errors.New("deck path is empty")
	}

	f, err := os.Open(deckPath)
	if err != nil {
		return "", fmt.Errorf("failed to open deck: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat deck: %w", err)
	}

	key := ObjectKey(day, deckPath)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(pdfContentType),
		Metadata: map[string]string{
			"issue-date": day.Format("2006-01-02"),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload deck: %w", err)
	}

	logger.WithComponent("archive").Debug().
		Str("object_key", key).
		Int64("size", info.Size()).
		Msg("Uploaded deck to R2")

	return key, nil
}
