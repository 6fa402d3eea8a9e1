package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/store"
)

// MaxSize is the largest seed accepted, in bytes.
const MaxSize = 4 << 20

// ObjectGetter is the part of the S3 client used to fetch seeds.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads seeds.
type Loader struct {
	s3     ObjectGetter
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithS3 sets the client used for s3:// sources.
func WithS3(client ObjectGetter) Option {
	return func(l *Loader) {
		l.s3 = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader. Without WithS3, s3:// sources fail.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "seed")
	return l
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Load reads and decodes source. Errors carry code C003.
func (l *Loader) Load(ctx context.Context, source string) (store.State, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "s3://") {
		data, err = l.fetchS3(ctx, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		return nil, errors.New("C003").WithDetail(source).Wrap(err)
	}

	state, err := Decode(source, data)
	if err != nil {
		return nil, errors.New("C003").WithDetail(source).Wrap(err)
	}
	l.logger.Info("seed loaded", "source", source, "keys", len(state))
	return state, nil
}

func readFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func (l *Loader) fetchS3(ctx context.Context, source string) ([]byte, error) {
	if l.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured")
	}
	bucket, key, err := ParseS3URL(source)
	if err != nil {
		return nil, err
	}

	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()
	return readLimited(out.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("seed larger than %d bytes", MaxSize)
	}
	return data, nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(source string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(source, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", source)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs bucket and key: %q", source)
	}
	return bucket, key, nil
}

// Decode parses data as JSON or YAML, chosen by the extension of name.
// The document must be a mapping.
func Decode(name string, data []byte) (store.State, error) {
	state := store.State{}
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".json":
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		normalizeNumbers(state)
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}
	return state, nil
}

func normalizeNumbers(state store.State) {
	for k, v := range state {
		f, ok := v.(float64)
		if ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			state[k] = int(f)
		}
	}
}
