// Package stores3 is a Blob backend over any S3-compatible object store,
// using the AWS SDK v2 the same way an S3-backed gateway wires up its own
// client: LoadDefaultConfig plus an optional custom endpoint for non-AWS
// providers.
package stores3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"vaultstore/internal/store"
)

// Config configures how Store reaches the bucket.
type Config struct {
	Bucket    string
	Prefix    string // optional key prefix, e.g. "myrepo/"
	Region    string
	Endpoint  string // non-empty for non-AWS S3-compatible providers
	AccessKey string
	SecretKey string
}

// Store is a Blob backend keyed by object name under Config.Prefix in a
// single bucket.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New builds a Store from cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("stores3: load aws config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &Store{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *Store) key(id string) string { return s.prefix + id }

func (s *Store) Write(ctx context.Context, id string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("stores3: put %s: %w", id, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("stores3: get %s: %w", id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("stores3: read body %s: %w", id, err)
	}
	return data, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("stores3: delete %s: %w", id, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(s.prefix),
		})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield("", fmt.Errorf("stores3: list: %w", err))
				return
			}
			for _, obj := range page.Contents {
				id := aws.ToString(obj.Key)[len(s.prefix):]
				if !yield(id, nil) {
					return
				}
			}
		}
	}
}

// Lock implements an advisory exclusion through the LOCK key. Under
// LockAbort it reads the key and fails with ErrAlreadyLocked if it exists,
// then writes it with an ordinary, unconditional put; the check and the
// put are not atomic. LockForce and LockWait skip the check and overwrite
// the key unconditionally, so neither is a true mutual-exclusion primitive.
func (s *Store) Lock(ctx context.Context, strategy store.LockStrategy) (store.Guard, error) {
	if strategy == store.LockAbort {
		if _, err := s.Read(ctx, store.LockID); err == nil {
			return nil, store.ErrAlreadyLocked
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	if err := s.Write(ctx, store.LockID, []byte("locked")); err != nil {
		return nil, err
	}
	return &guard{store: s}, nil
}

type guard struct {
	store *Store
}

func (g *guard) Unlock(ctx context.Context) error {
	return g.store.Remove(ctx, store.LockID)
}
