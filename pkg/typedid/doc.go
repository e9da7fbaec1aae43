// Package typedid provides strongly-typed UUID identifiers.
//
// ID[T] marshals to and from text and JSON as a plain UUID string and works
// with database/sql and pgx through sql.Scanner and driver.Valuer.
package typedid
