// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/jeranaias/folio-tui/internal/util"
)

// S3Getter is the slice of the S3 API used by S3Source.
// *s3.Client satisfies it.
type S3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// NewS3Client builds an S3 client for AWS or any S3-compatible store.
// Empty keys give anonymous access to public buckets.
func NewS3Client(opts S3Options) *s3.Client {
	o := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.PathStyle,
	}
	if o.Region == "" {
		o.Region = "us-east-1"
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.AccessKeyID != "" {
		key, secret := opts.AccessKeyID, opts.SecretAccessKey
		o.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{AccessKeyID: key, SecretAccessKey: secret, Source: "folio-config"}, nil
			}))
	} else {
		o.Credentials = aws.AnonymousCredentials{}
	}
	return s3.New(o)
}

// S3Source prefetches a clip from an S3 bucket into a cache directory.
type S3Source struct {
	asset
	client   S3Getter
	Bucket   string
	Key      string
	CacheDir string
}

// NewS3Source creates a source for bucket/key.
func NewS3Source(client S3Getter, bucket, key, cacheDir string) *S3Source {
	return &S3Source{client: client, Bucket: bucket, Key: key, CacheDir: cacheDir}
}

// Load downloads the object unless a cached copy exists.
func (s *S3Source) Load(ctx context.Context) error {
	ref := "s3://" + s.Bucket + "/" + s.Key
	dest := cachePath(s.CacheDir, ref)
	if fileExists(dest) {
		s.markLoaded(dest)
		return nil
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("get %s: %w", ref, os.ErrNotExist)
		}
		return fmt.Errorf("get %s: %w", ref, err)
	}
	defer out.Body.Close()

	if err := util.AtomicWriteReader(dest, out.Body, 0644); err != nil {
		return fmt.Errorf("cache %s: %w", ref, err)
	}
	s.markLoaded(dest)
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
