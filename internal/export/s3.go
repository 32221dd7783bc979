package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client the sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads files to a bucket under a key prefix.
type S3Sink struct {
	client       PutObjectAPI
	bucket       string
	prefix       string
	cacheControl string
}

// NewS3Sink returns a sink writing to bucket/prefix/<path>.
func NewS3Sink(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		cacheControl: "public, max-age=300",
	}
}

// Name implements Sink.
func (s *S3Sink) Name() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

// Key returns the object key for a published path.
func (s *S3Sink) Key(name string) string {
	return path.Join(s.prefix, name)
}

// Put uploads data as a JSON object.
func (s *S3Sink) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.Key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
		CacheControl:  aws.String(s.cacheControl),
	})
	return err
}

// S3Options selects the endpoint of NewS3Client.
type S3Options struct {
	Region       string
	Endpoint     string // Custom endpoint for S3-compatible stores
	UsePathStyle bool
}

// ErrMissingCredentials is returned when the AWS credential variables are unset.
var ErrMissingCredentials = errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")

// envCredentials reads static credentials from the standard AWS variables.
var envCredentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, ErrMissingCredentials
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
})

// NewS3Client returns an S3 client using credentials from the environment.
func NewS3Client(opts S3Options) *s3.Client {
	return s3.New(s3.Options{
		Region:       opts.Region,
		Credentials:  aws.NewCredentialsCache(envCredentials),
		UsePathStyle: opts.UsePathStyle,
	}, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
}
