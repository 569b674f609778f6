package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const archivePrefix = "detecciones"

// ItfArchive stores a copy of the media submitted for detection.
type ItfArchive interface {
	Archive(ctx context.Context, key string, file *entity.Upload) (string, error)
}

type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

type s3Archive struct {
	uploader   *s3manager.Uploader
	bucketName string
}

func New(opts Options) (ItfArchive, error) {
	if opts.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(opts.Region),
		Credentials: credentials.NewStaticCredentials(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, err
	}

	return &s3Archive{
		uploader:   s3manager.NewUploader(sess),
		bucketName: opts.BucketName,
	}, nil
}

func (s *s3Archive) Archive(ctx context.Context, key string, file *entity.Upload) (string, error) {
	if file == nil {
		return "", fmt.Errorf("nothing to archive")
	}

	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(ObjectKey(key, file.FileName)),
		Body:   bytes.NewReader(file.Content),
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}

	out, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", err
	}

	return out.Location, nil
}

// ObjectKey builds the bucket key for an archived file.
func ObjectKey(id, fileName string) string {
	name := strings.ReplaceAll(path.Base(fileName), " ", "_")
	if name == "." || name == "/" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%s-%s", archivePrefix, id, name)
}
