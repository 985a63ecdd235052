package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrRemoteDisabled is returned for remote schema locations when the loader
// was constructed local-only.
var ErrRemoteDisabled = errors.New("remote schema lookup is disabled")

// DescribeTypeAPI is the registry surface the loader needs.
type DescribeTypeAPI interface {
	DescribeType(ctx context.Context, params *cloudformation.DescribeTypeInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeTypeOutput, error)
}

// ObjectStoreAPI is the object-store surface the loader needs.
type ObjectStoreAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// DescribedType is the registry's view of one type.
type DescribedType struct {
	TypeName         string
	Schema           map[string]any
	ProvisioningType string
	Visibility       string
}

// SchemaLoader loads target type schemas from local files, HTTPS URLs, S3
// objects, or the registry.
type SchemaLoader struct {
	registry  DescribeTypeAPI
	objects   ObjectStoreAPI
	web       *http.Client
	localOnly bool
	logger    *slog.Logger
}

// NewSchemaLoader creates a loader. A nil web client falls back to
// http.DefaultClient; a nil logger discards log output. With localOnly set,
// every remote location fails with ErrRemoteDisabled.
func NewSchemaLoader(registry DescribeTypeAPI, objects ObjectStoreAPI, web *http.Client, localOnly bool, logger *slog.Logger) *SchemaLoader {
	if web == nil {
		web = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SchemaLoader{registry: registry, objects: objects, web: web, localOnly: localOnly, logger: logger}
}

// LoadTypeSchemas loads the schema document at location and returns its
// schemas. The document body may be a single schema object or an array of
// them. Supported locations: plain local paths, file://, https:// (and
// http:// for local emulators), and s3://bucket/key.
func (l *SchemaLoader) LoadTypeSchemas(ctx context.Context, location string) ([]map[string]any, error) {
	body, err := l.read(ctx, location)
	if err != nil {
		return nil, err
	}
	schemas, err := parseSchemaBody(body)
	if err != nil {
		return nil, fmt.Errorf("schema document %s: %w", location, err)
	}
	l.logger.Debug("loaded target schemas", "location", location, "count", len(schemas))
	return schemas, nil
}

// DescribeType fetches one type from the registry.
func (l *SchemaLoader) DescribeType(ctx context.Context, typeName string) (*DescribedType, error) {
	if l.localOnly || l.registry == nil {
		return nil, fmt.Errorf("describing %s: %w", typeName, ErrRemoteDisabled)
	}
	out, err := l.registry.DescribeType(ctx, &cloudformation.DescribeTypeInput{
		Type:     types.RegistryTypeResource,
		TypeName: aws.String(typeName),
	})
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", typeName, err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(aws.ToString(out.Schema)), &schema); err != nil {
		return nil, fmt.Errorf("registry schema for %s: %w", typeName, err)
	}
	return &DescribedType{
		TypeName:         aws.ToString(out.TypeName),
		Schema:           schema,
		ProvisioningType: string(out.ProvisioningType),
		Visibility:       string(out.Visibility),
	}, nil
}

func (l *SchemaLoader) read(ctx context.Context, location string) ([]byte, error) {
	switch {
	case strings.HasPrefix(location, "file://"):
		return os.ReadFile(strings.TrimPrefix(location, "file://"))
	case strings.HasPrefix(location, "https://"), strings.HasPrefix(location, "http://"):
		if l.localOnly {
			return nil, fmt.Errorf("%s: %w", location, ErrRemoteDisabled)
		}
		return l.readHTTP(ctx, location)
	case strings.HasPrefix(location, "s3://"):
		if l.localOnly || l.objects == nil {
			return nil, fmt.Errorf("%s: %w", location, ErrRemoteDisabled)
		}
		return l.readS3(ctx, location)
	default:
		return os.ReadFile(location)
	}
}

func (l *SchemaLoader) readHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.web.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (l *SchemaLoader) readS3(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid object URI %q", uri)
	}
	out, err := l.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// parseSchemaBody accepts one schema object or an array of schema objects.
func parseSchemaBody(body []byte) ([]map[string]any, error) {
	var single map[string]any
	if err := json.Unmarshal(body, &single); err == nil {
		return []map[string]any{single}, nil
	}
	var many []map[string]any
	if err := json.Unmarshal(body, &many); err != nil {
		return nil, fmt.Errorf("body is neither a schema object nor an array of them: %w", err)
	}
	return many, nil
}
