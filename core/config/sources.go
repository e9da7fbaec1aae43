package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Source supplies one configuration layer as key/value pairs.
type Source interface {
	Load(ctx context.Context) (map[string]string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (map[string]string, error)

func (f SourceFunc) Load(ctx context.Context) (map[string]string, error) { return f(ctx) }

// EnvFile reads dotenv files. Later files override earlier ones.
// A missing file fails with ErrSourceNotFound.
func EnvFile(paths ...string) Source {
	return SourceFunc(func(context.Context) (map[string]string, error) {
		values := make(map[string]string)
		for _, path := range paths {
			m, err := godotenv.Read(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
				}
				return nil, fmt.Errorf("read env file %s: %w", path, err)
			}
			for k, v := range m {
				values[k] = v
			}
		}
		return values, nil
	})
}

// OptionalEnvFile reads dotenv files, skipping the ones that do not exist.
func OptionalEnvFile(paths ...string) Source {
	return SourceFunc(func(ctx context.Context) (map[string]string, error) {
		values := make(map[string]string)
		for _, path := range paths {
			m, err := Optional(EnvFile(path)).Load(ctx)
			if err != nil {
				return nil, err
			}
			for k, v := range m {
				values[k] = v
			}
		}
		return values, nil
	})
}

// SecretsDir reads a directory of secret files, as mounted by Docker and
// Kubernetes. Each regular file becomes one key named after the file, with
// trailing newlines trimmed. Hidden files are skipped.
func SecretsDir(dir string) Source {
	return SourceFunc(func(context.Context) (map[string]string, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, dir)
			}
			return nil, fmt.Errorf("read secrets dir %s: %w", dir, err)
		}

		values := make(map[string]string, len(entries))
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("read secret %s: %w", e.Name(), err)
			}
			values[e.Name()] = strings.TrimRight(string(data), "\r\n")
		}
		return values, nil
	})
}

// Environment returns the process environment.
func Environment() Source {
	return SourceFunc(func(context.Context) (map[string]string, error) {
		values := make(map[string]string)
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				values[k] = v
			}
		}
		return values, nil
	})
}

// Map returns a fixed layer. The map is copied on every Load.
func Map(m map[string]string) Source {
	return SourceFunc(func(context.Context) (map[string]string, error) {
		values := make(map[string]string, len(m))
		for k, v := range m {
			values[k] = v
		}
		return values, nil
	})
}

// Optional turns ErrSourceNotFound from src into an empty layer.
func Optional(src Source) Source {
	return SourceFunc(func(ctx context.Context) (map[string]string, error) {
		values, err := src.Load(ctx)
		if errors.Is(err, ErrSourceNotFound) {
			return map[string]string{}, nil
		}
		return values, err
	})
}

// Merge loads sources in order. Keys from later sources override earlier ones.
func Merge(ctx context.Context, sources ...Source) (map[string]string, error) {
	merged := make(map[string]string)
	for i, src := range sources {
		values, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %w", ErrLoadSource, i, err)
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	return merged, nil
}
