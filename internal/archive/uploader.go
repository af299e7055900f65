// agent/internal/archive/uploader.go
package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pharmacy-refill-dispatch/config"
)

// Uploader archives successfully printed labels to S3 for audit. It is
// optional; print cycles never depend on it.
type Uploader struct {
	Client *s3.Client
	Bucket string
}

func NewUploader(cfg config.S3Config) (*Uploader, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Uploader{
		Client: s3.NewFromConfig(sdkConfig),
		Bucket: cfg.Bucket,
	}, nil
}

// UploadLabel stores the rendered ZPL under labels/<store>/<request>.zpl
// and returns the object key.
func (u *Uploader) UploadLabel(ctx context.Context, storeID, requestID string, zpl []byte) (string, error) {
	objectKey := fmt.Sprintf("labels/%s/%s.zpl", storeID, requestID)

	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(zpl),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload label to S3: %w", err)
	}

	return objectKey, nil
}
