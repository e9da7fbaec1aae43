package typedid

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidID = errors.New("invalid id")
	ErrNilID     = errors.New("nil id")
)

// ID is a UUID tagged with the entity type it identifies, so that an
// ID[Invoice] cannot be passed where an ID[Customer] is expected.
// T is only used at compile time; any type works, typically an empty struct.
//
// Example:
//
//	type invoiceTag struct{}
//	type InvoiceID = typedid.ID[invoiceTag]
//
//	id := typedid.New[invoiceTag]()
type ID[T any] struct {
	uuid uuid.UUID
}

// New returns a time-ordered (version 7) ID.
func New[T any]() ID[T] {
	return ID[T]{uuid: uuid.Must(uuid.NewV7())}
}

// FromUUID wraps an existing UUID.
func FromUUID[T any](u uuid.UUID) ID[T] {
	return ID[T]{uuid: u}
}

// Parse reads the canonical text form of an ID.
func Parse[T any](s string) (ID[T], error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID[T]{}, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return ID[T]{uuid: u}, nil
}

// MustParse is like Parse but panics on error.
func MustParse[T any](s string) ID[T] {
	id, err := Parse[T](s)
	if err != nil {
		panic(err)
	}
	return id
}

// UUID returns the underlying UUID.
func (id ID[T]) UUID() uuid.UUID { return id.uuid }

// IsNil reports whether id is the zero ID.
func (id ID[T]) IsNil() bool { return id.uuid == uuid.Nil }

func (id ID[T]) String() string { return id.uuid.String() }

// MarshalText encodes id in canonical form. The zero ID encodes as an empty string.
func (id ID[T]) MarshalText() ([]byte, error) {
	if id.IsNil() {
		return []byte{}, nil
	}
	return id.uuid.MarshalText()
}

// UnmarshalText decodes the canonical form. An empty input yields the zero ID.
func (id *ID[T]) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*id = ID[T]{}
		return nil
	}
	parsed, err := Parse[T](string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer. The zero ID is stored as NULL.
func (id ID[T]) Value() (driver.Value, error) {
	if id.IsNil() {
		return nil, nil
	}
	return id.uuid.String(), nil
}

// Scan implements sql.Scanner for string, []byte and NULL columns.
func (id *ID[T]) Scan(src any) error {
	if src == nil {
		*id = ID[T]{}
		return nil
	}

	var u uuid.UUID
	if err := u.Scan(src); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	*id = ID[T]{uuid: u}
	return nil
}

// Validate fails with ErrNilID for the zero ID.
func (id ID[T]) Validate() error {
	if id.IsNil() {
		return ErrNilID
	}
	return nil
}
