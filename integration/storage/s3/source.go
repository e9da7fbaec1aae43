package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/callkit/core/config"
)

// maxDocumentSize bounds the configuration object read into memory.
const maxDocumentSize = 1 << 20

// GetObjectAPI is the subset of *s3.Client used by ConfigSource.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
}

// ConfigSource reads one configuration layer from a bucket object.
// Objects ending in .json hold a flat JSON object; anything else is read as dotenv.
// It implements config.Source.
type ConfigSource struct {
	client GetObjectAPI
	bucket string
	key    string
}

var _ config.Source = (*ConfigSource)(nil)

// NewConfigSource creates a ConfigSource for bucket/key.
func NewConfigSource(client GetObjectAPI, bucket, key string) (*ConfigSource, error) {
	if client == nil || bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: client, bucket and key are required", ErrInvalidConfig)
	}
	return &ConfigSource{client: client, bucket: bucket, key: key}, nil
}

func (s *ConfigSource) location() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Load fetches and parses the object. A missing object fails with config.ErrSourceNotFound.
func (s *ConfigSource) Load(ctx context.Context) (map[string]string, error) {
	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, classifyError(err, s.location())
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize+1))
	if err != nil {
		return nil, classifyError(err, s.location())
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidDocument, s.location(), maxDocumentSize)
	}

	if strings.EqualFold(path.Ext(s.key), ".json") {
		return parseJSON(data, s.location())
	}

	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, s.location(), err)
	}
	return values, nil
}

// parseJSON accepts a flat object of strings, numbers, booleans and nulls.
func parseJSON(data []byte, location string) (map[string]string, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, location, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			values[k] = v
		case json.Number:
			values[k] = v.String()
		case bool:
			values[k] = strconv.FormatBool(v)
		case nil:
			values[k] = ""
		default:
			return nil, fmt.Errorf("%w: %s: key %q is not a scalar", ErrInvalidDocument, location, k)
		}
	}
	return values, nil
}
