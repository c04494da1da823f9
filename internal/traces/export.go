// Where: internal/traces/export.go
// What: Trace archive upload to S3-compatible object storage.
// Why: Let demo runs be shared by pushing the trace directory to a bucket,
//      including local MinIO-style endpoints.
package traces

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

// ObjectStore is the subset of the S3 client the exporter uses.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ExportOptions describes one export run.
type ExportOptions struct {
	TraceDir string
	Bucket   string
	Prefix   string
}

// NewObjectStore builds an S3 client. A non-empty endpoint switches to
// path-style addressing with static credentials, the shape local object
// stores expect; otherwise the default AWS credential chain applies.
func NewObjectStore(ctx context.Context, endpoint string) (ObjectStore, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if endpoint != "" {
		creds := credentials.NewStaticCredentialsProvider(
			envOrDefault("AGENTBOX_S3_ACCESS_KEY", "dummy"),
			envOrDefault("AGENTBOX_S3_SECRET_KEY", "dummy"),
			"",
		)
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(creds))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return client, nil
}

// Export uploads every regular file under the trace directory, preserving
// relative paths under the prefix. Returns the number of uploaded objects.
func Export(ctx context.Context, store ObjectStore, opts ExportOptions) (int, error) {
	if store == nil {
		return 0, fmt.Errorf("object store is nil")
	}
	if opts.Bucket == "" {
		return 0, fmt.Errorf("bucket is required")
	}

	uploaded := 0
	err := filepath.WalkDir(opts.TraceDir, func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(opts.TraceDir, filePath)
		if err != nil {
			return err
		}

		file, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer file.Close()

		key := path.Join(opts.Prefix, filepath.ToSlash(rel))
		_, err = store.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(opts.Bucket),
			Key:    aws.String(key),
			Body:   file,
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", rel, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}
	if uploaded == 0 {
		return 0, fmt.Errorf("no trace files found in %s", opts.TraceDir)
	}
	return uploaded, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
