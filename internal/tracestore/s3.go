package tracestore

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/vango-react/internal/errors"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store stores traces in an S3 bucket.
//
// Example usage:
//
//	client := tracestore.NewS3Client("eu-west-1", "")
//	store := tracestore.NewS3Store(client, "my-bucket", "traces/", tracestore.FormatJSON)
type S3Store struct {
	client S3API
	bucket string
	prefix string
	format Format
}

// NewS3Store creates a new S3 trace store.
//
// Parameters:
//   - client: S3 client, usually from NewS3Client
//   - bucket: S3 bucket name
//   - prefix: Key prefix for traces (e.g., "traces/")
//   - f: Encoding of the stored objects
func NewS3Store(client S3API, bucket, prefix string, f Format) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		format: f,
	}
}

// Put uploads t to s3://<bucket>/<prefix><id>.<ext>.
func (s *S3Store) Put(ctx context.Context, t *Trace) (string, error) {
	data, err := t.Bytes(s.format)
	if err != nil {
		return "", err
	}

	key := s.prefix + keyFor(t, s.format)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(s.format.ContentType()),
		Metadata: map[string]string{
			"trace-id":    t.ID,
			"event-count": strconv.Itoa(len(t.Events)),
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", errors.New("R051").
			WithDetail("s3 upload of " + key + " failed").
			Wrap(err)
	}
	return key, nil
}

// Get downloads the trace stored under key.
func (s *S3Store) Get(ctx context.Context, key string) (*Trace, error) {
	f, err := ParseFormat(trimDot(path.Ext(key)))
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if stderrors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, errors.New("R051").Wrap(err)
	}
	defer out.Body.Close()
	return Decode(out.Body, f)
}

// NewS3Client returns an S3 client for region. Credentials come from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables. A non-empty endpoint selects an S3-compatible
// store with path-style addressing.
func NewS3Client(region, endpoint string) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials()),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		creds := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "EnvironmentVariables",
		}
		if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
			return aws.Credentials{}, errors.New("R051").
				WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")
		}
		return creds, nil
	})
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
