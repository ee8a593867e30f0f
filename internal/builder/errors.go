package builder

import "errors"

var (
	ErrUnknownTable           = errors.New("unknown table")
	ErrUnknownColumn          = errors.New("unknown column")
	ErrTypeMismatch           = errors.New("type mismatch")
	ErrDuplicateTable         = errors.New("duplicate table")
	ErrDuplicateColumn        = errors.New("duplicate column")
	ErrDuplicateJoin          = errors.New("duplicate join")
	ErrDuplicateIndex         = errors.New("duplicate index")
	ErrMissingIndex           = errors.New("missing index")
	ErrMissingJoin            = errors.New("missing join")
	ErrKeyConflict            = errors.New("key conflict")
	ErrSchemaMismatch         = errors.New("schema mismatch")
	ErrEmptyTable             = errors.New("empty table")
	ErrIncompatibleJoinColumn = errors.New("incompatible join column")
	ErrNoTables               = errors.New("no tables")
)
