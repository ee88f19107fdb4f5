package s3

import (
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"github.com/blogicum/blogicum/pkg/config"
)

// Client uploads post images to an S3 bucket
type Client struct {
	uploader *s3manager.Uploader
	bucket   string
}

// New creates a new S3 client. Returns nil when no bucket is configured,
// in which case image upload is disabled.
func New(cfg *config.MediaConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Client{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
	}, nil
}

// Enabled reports whether uploads are configured
func (c *Client) Enabled() bool {
	return c != nil && c.uploader != nil
}

// UploadImage stores an image under posts_images/ and returns its URL.
// The object key keeps the original extension with a random name.
func (c *Client) UploadImage(filename, contentType string, body io.Reader) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("image storage is not configured")
	}

	key := "posts_images/" + uuid.NewString() + path.Ext(filename)

	out, err := c.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return out.Location, nil
}
