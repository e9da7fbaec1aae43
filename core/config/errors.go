package config

import "errors"

var (
	// ErrSourceNotFound is returned by sources whose file, directory or object is absent.
	ErrSourceNotFound = errors.New("configuration source not found")

	// ErrLoadSource wraps any failure to load a layer.
	ErrLoadSource = errors.New("failed to load configuration source")

	// ErrParse is returned when values cannot be parsed into the target struct.
	ErrParse = errors.New("failed to parse configuration")

	// ErrEncryptedValue is returned for an encrypted value when no decryption keys are configured.
	ErrEncryptedValue = errors.New("encrypted configuration value without decryption keys")

	// ErrDecrypt is returned when an encrypted value cannot be decrypted.
	ErrDecrypt = errors.New("failed to decrypt configuration value")
)
