package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/league-tracker/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Prefix          string
}

// objectAPI is the subset of the S3 client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// R2Store keeps league snapshots as objects in a Cloudflare R2 bucket.
type R2Store struct {
	client     objectAPI
	bucketName string
	prefix     string
	codec      Codec
}

func NewR2Store(ctx context.Context, cfg R2Config, codec Codec) (*R2Store, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, errors.New("invalid Cloudflare R2 configuration: account id, access key, secret and bucket are required")
	}

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:           fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
			SigningRegion: "auto",
		}, nil
	})

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	return newR2Store(s3.NewFromConfig(sdkCfg), cfg.BucketName, cfg.Prefix, codec), nil
}

func newR2Store(client objectAPI, bucket, prefix string, codec Codec) *R2Store {
	if codec == nil {
		codec = JSONCodec{}
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &R2Store{client: client, bucketName: bucket, prefix: prefix, codec: codec}
}

func (s *R2Store) objectKey(key string) string {
	return s.prefix + key + s.codec.Extension()
}

func (s *R2Store) Save(ctx context.Context, league *models.League) error {
	if err := ValidateLeagueName(league.Name); err != nil {
		return err
	}
	key := RecordKey(league.Name)

	var buf bytes.Buffer
	if err := EncodeLeague(s.codec, &buf, league); err != nil {
		return fmt.Errorf("failed to encode league %s: %w", key, err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(s.codec.ContentType()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload league to R2 (key: %s): %w", s.objectKey(key), err)
	}
	return nil
}

func (s *R2Store) Load(ctx context.Context, name string) (*models.League, error) {
	if err := ValidateLeagueName(name); err != nil {
		return nil, err
	}
	key := RecordKey(strings.TrimSuffix(name, s.codec.Extension()))

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, key)
		}
		return nil, fmt.Errorf("failed to download league from R2 (key: %s): %w", s.objectKey(key), err)
	}
	defer out.Body.Close()

	return decodeStored(s.codec, out.Body, key)
}

func (s *R2Store) List(ctx context.Context) ([]string, error) {
	ext := s.codec.Extension()
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list leagues in R2: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, ext) {
				continue
			}
			keys = append(keys, strings.TrimSuffix(name, ext))
		}
	}
	sort.Strings(keys)
	return keys, nil
}
