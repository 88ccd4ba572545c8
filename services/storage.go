package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tech_office_cms_go/config"
)

// ShareClient is one live connection to the office file share. Handlers
// dial a fresh client per request and must Close it on every exit path.
type ShareClient interface {
	Mkdir(ctx context.Context, relPath string) error
	List(ctx context.Context, relPath string) ([]string, error)
	Put(ctx context.Context, relPath string, reader io.Reader, size int64) error
	Get(ctx context.Context, relPath string) ([]byte, error)
	Close() error
}

// ShareDialer opens share connections. The per-request dial/close cycle
// mirrors how the office NAS is accessed: open before first use, always
// close, even on error.
type ShareDialer interface {
	Dial() (ShareClient, error)
}

// NewShareDialer selects the share backend from configuration: the NAS
// S3 gateway when fully configured, a local directory otherwise.
func NewShareDialer(cfg *config.Config) ShareDialer {
	if cfg.NasEndpoint != "" && cfg.NasAccessKeyID != "" && cfg.NasSecretKey != "" && cfg.NasBucket != "" {
		log.Printf("Share storage configured (NAS gateway - bucket: %s)", cfg.NasBucket)
		return &nasDialer{cfg: cfg}
	}
	log.Printf("Share storage configured (Local directory - path: %s)", cfg.LocalShareDir)
	return &localDialer{baseDir: cfg.LocalShareDir}
}

// nasDialer opens a fresh S3 client against the NAS gateway per request.
type nasDialer struct {
	cfg *config.Config
}

func (d *nasDialer) Dial() (ShareClient, error) {
	creds := credentials.NewStaticCredentialsProvider(
		d.cfg.NasAccessKeyID,
		d.cfg.NasSecretKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := d.cfg.NasEndpoint
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &nasShare{client: client, bucket: d.cfg.NasBucket}, nil
}

// nasShare implements ShareClient over an S3-compatible NAS gateway.
type nasShare struct {
	client *s3.Client
	bucket string
}

// Mkdir creates a zero-byte directory marker. Object stores have no real
// directories; listing treats the prefix as the folder.
func (n *nasShare) Mkdir(ctx context.Context, relPath string) error {
	key := strings.TrimSuffix(relPath, "/") + "/"
	_, err := n.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(n.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to create folder on share: %w", err)
	}
	return nil
}

func (n *nasShare) List(ctx context.Context, relPath string) ([]string, error) {
	prefix := strings.TrimSuffix(relPath, "/") + "/"
	out, err := n.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(n.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list share folder: %w", err)
	}

	var names []string
	for _, obj := range out.Contents {
		name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
		if name == "" {
			continue // the directory marker itself
		}
		names = append(names, name)
	}
	for _, cp := range out.CommonPrefixes {
		name := strings.TrimPrefix(aws.ToString(cp.Prefix), prefix)
		names = append(names, strings.TrimSuffix(name, "/"))
	}
	sort.Strings(names)
	return names, nil
}

func (n *nasShare) Put(ctx context.Context, relPath string, reader io.Reader, size int64) error {
	_, err := n.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(n.bucket),
		Key:           aws.String(relPath),
		Body:          reader,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to share: %w", err)
	}
	return nil
}

func (n *nasShare) Get(ctx context.Context, relPath string) ([]byte, error) {
	out, err := n.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(n.bucket),
		Key:    aws.String(relPath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file from share: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file from share: %w", err)
	}
	return data, nil
}

func (n *nasShare) Close() error {
	// The SDK client holds no persistent connection state to release; the
	// scoped acquire/use/release shape is kept for all backends.
	return nil
}

// localDialer serves a local directory as the share (development, tests).
type localDialer struct {
	baseDir string
}

func (d *localDialer) Dial() (ShareClient, error) {
	if err := os.MkdirAll(d.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create share directory: %w", err)
	}
	return &localShare{baseDir: d.baseDir}, nil
}

type localShare struct {
	baseDir string
}

func (l *localShare) Mkdir(ctx context.Context, relPath string) error {
	if err := os.MkdirAll(filepath.Join(l.baseDir, filepath.FromSlash(relPath)), 0755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

func (l *localShare) List(ctx context.Context, relPath string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.baseDir, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (l *localShare) Put(ctx context.Context, relPath string, reader io.Reader, size int64) error {
	fullPath := filepath.Join(l.baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (l *localShare) Get(ctx context.Context, relPath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.baseDir, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (l *localShare) Close() error {
	return nil
}
