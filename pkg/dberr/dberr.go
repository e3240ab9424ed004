// Package dberr holds the error taxonomy shared by the tokenizer, parser,
// storage engine and executor. Every kind shares the single SimpleDBError
// type and is told apart by its Kind field (see Is), while the executor's
// top-level catch only needs the common error interface.
package dberr

import "fmt"

// Kind identifies one of the error categories of the design doc's error
// table. It is attached to every SimpleDBError so the executor and tests can
// branch on the kind without string-matching the message.
type Kind int

const (
	KindParse Kind = iota
	KindTableNotFound
	KindColumnNotFound
	KindDataType
	KindNotNullViolation
	KindPrimaryKeyViolation
	KindUniqueViolation
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindTableNotFound:
		return "TableNotFoundError"
	case KindColumnNotFound:
		return "ColumnNotFoundError"
	case KindDataType:
		return "DataTypeError"
	case KindNotNullViolation:
		return "NotNullViolation"
	case KindPrimaryKeyViolation:
		return "PrimaryKeyViolation"
	case KindUniqueViolation:
		return "UniqueConstraintViolation"
	default:
		return "Error"
	}
}

// SimpleDBError is the single error type raised by every SimpleDB layer.
// It is recoverable from the caller's perspective: the executor catches it
// and turns it into a failure Result.
type SimpleDBError struct {
	Kind    Kind
	Message string
}

func (e *SimpleDBError) Error() string { return e.Message }

func newf(k Kind, format string, args ...any) *SimpleDBError {
	return &SimpleDBError{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func ParseError(format string, args ...any) *SimpleDBError {
	return newf(KindParse, format, args...)
}

func TableNotFound(name string) *SimpleDBError {
	return newf(KindTableNotFound, "table %q does not exist", name)
}

func ColumnNotFound(table, column string) *SimpleDBError {
	return newf(KindColumnNotFound, "column %q does not exist in table %q", column, table)
}

func DataType(format string, args ...any) *SimpleDBError {
	return newf(KindDataType, format, args...)
}

func NotNullViolation(column string) *SimpleDBError {
	return newf(KindNotNullViolation, "column %q cannot be NULL", column)
}

func PrimaryKeyViolation(column string, value any) *SimpleDBError {
	return newf(KindPrimaryKeyViolation, "Primary key %q value %v already exists", column, value)
}

func UniqueViolation(column string, value any) *SimpleDBError {
	return newf(KindUniqueViolation, "UNIQUE constraint violated for column %q value %v", column, value)
}

// Is reports whether err is a *SimpleDBError of the given kind.
func Is(err error, k Kind) bool {
	sde, ok := err.(*SimpleDBError)
	return ok && sde.Kind == k
}
