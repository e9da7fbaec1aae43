package config

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/callkit/pkg/secrets"
)

// EncryptedPrefix marks a value encrypted with pkg/secrets.
const EncryptedPrefix = "enc:"

// configCache holds the first successful Load result per configuration type.
var configCache sync.Map

type options struct {
	envFiles     []string
	secretsDir   string
	sources      []Source
	environment  bool
	prefix       string
	appKey       []byte
	workspaceKey []byte
}

// Option configures how configuration is loaded.
type Option func(*options)

// WithEnvFiles replaces the default optional .env file with the given files.
// The files must exist. Calling it without paths disables env files.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		o.envFiles = append([]string{}, paths...)
	}
}

// WithSecretsDir adds a secrets directory layer after env files.
// A missing directory is ignored.
func WithSecretsDir(dir string) Option {
	return func(o *options) {
		o.secretsDir = dir
	}
}

// WithSources adds layers after env files and secrets, before the process environment.
func WithSources(sources ...Source) Option {
	return func(o *options) {
		o.sources = append(o.sources, sources...)
	}
}

// WithoutEnvironment drops the process environment layer.
func WithoutEnvironment() Option {
	return func(o *options) {
		o.environment = false
	}
}

// WithPrefix only reads keys with the given prefix, e.g. "BILLING_".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithDecryptionKeys decrypts values starting with EncryptedPrefix using pkg/secrets.
func WithDecryptionKeys(appKey, workspaceKey []byte) Option {
	return func(o *options) {
		o.appKey = appKey
		o.workspaceKey = workspaceKey
	}
}

func newOptions(opts []Option) *options {
	o := &options{environment: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// layers returns sources from lowest to highest precedence.
func (o *options) layers() []Source {
	var layers []Source

	if o.envFiles == nil {
		layers = append(layers, OptionalEnvFile(".env"))
	} else if len(o.envFiles) > 0 {
		layers = append(layers, EnvFile(o.envFiles...))
	}
	if o.secretsDir != "" {
		layers = append(layers, Optional(SecretsDir(o.secretsDir)))
	}
	layers = append(layers, o.sources...)
	if o.environment {
		layers = append(layers, Environment())
	}
	return layers
}

func (o *options) decrypt(values map[string]string) error {
	for k, v := range values {
		token, ok := strings.CutPrefix(v, EncryptedPrefix)
		if !ok {
			continue
		}
		if o.appKey == nil || o.workspaceKey == nil {
			return fmt.Errorf("%w: %s", ErrEncryptedValue, k)
		}
		plain, err := secrets.DecryptString(o.appKey, o.workspaceKey, token)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDecrypt, k, err)
		}
		values[k] = plain
	}
	return nil
}

// Parse loads all layers and parses them into a new T. Results are not cached.
//
// Example:
//
//	remote, _ := s3.NewConfigSource(client, "cfg", "billing.env")
//	cfg, err := config.Parse[pg.Config](ctx,
//	    config.WithSecretsDir("/run/secrets"),
//	    config.WithSources(config.Optional(remote)),
//	)
func Parse[T any](ctx context.Context, opts ...Option) (T, error) {
	var cfg T
	o := newOptions(opts)

	values, err := Merge(ctx, o.layers()...)
	if err != nil {
		return cfg, err
	}
	if err := o.decrypt(values); err != nil {
		return cfg, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment: values,
		Prefix:      o.prefix,
	}); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return cfg, nil
}

// Load parses configuration into cfg. Each type is loaded once and cached;
// later calls copy the cached value and ignore opts.
func Load[T any](cfg *T, opts ...Option) error {
	return LoadContext(context.Background(), cfg, opts...)
}

// LoadContext is Load with a context for remote sources.
func LoadContext[T any](ctx context.Context, cfg *T, opts ...Option) error {
	key := reflect.TypeFor[T]()
	if cached, ok := configCache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	parsed, err := Parse[T](ctx, opts...)
	if err != nil {
		return err
	}

	actual, _ := configCache.LoadOrStore(key, parsed)
	*cfg = actual.(T)
	return nil
}

// MustLoad calls Load and panics on failure.
// Useful during application startup.
func MustLoad[T any](cfg *T, opts ...Option) {
	if err := Load(cfg, opts...); err != nil {
		panic(err)
	}
}
