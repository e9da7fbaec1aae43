// Package config loads type-safe configuration from layered sources using
// caarlos0/env struct tags. Each configuration type is loaded once and
// cached for subsequent calls.
//
// Layers, from lowest to highest precedence:
//
//  1. envDefault struct tags
//  2. dotenv files (an optional .env by default, see WithEnvFiles)
//  3. a secrets directory (WithSecretsDir)
//  4. additional sources, such as a remote object (WithSources)
//  5. the process environment (unless WithoutEnvironment)
//
// Basic usage:
//
//	type DatabaseConfig struct {
//		ConnectionString string `env:"PG_CONN_URL,required"`
//		MaxOpenConns     int32  `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//	}
//
//	var db DatabaseConfig
//	if err := config.Load(&db, config.WithSecretsDir("/run/secrets")); err != nil {
//		log.Fatal(err)
//	}
//
// # Encrypted values
//
// Values of the form "enc:<token>" are decrypted with pkg/secrets when
// WithDecryptionKeys is set; without keys such values fail the load with
// ErrEncryptedValue rather than leaking ciphertext into the application.
//
// # Caching Behavior
//
// Load and MustLoad cache the first successful result per type; options on
// later calls are ignored. Parse never caches.
package config
