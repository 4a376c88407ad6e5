package textenc

import "errors"

var (
	// ErrNilSource indicates that a pipeline was constructed over a nil
	// byte or text source.
	ErrNilSource = errors.New("textenc: pipeline created with a nil source")

	// ErrStreamIsBinary is returned when AcceptTextOnly is set and the
	// classifier flagged the stream as binary. It is raised before any
	// decoded text is produced.
	ErrStreamIsBinary = errors.New("textenc: stream seems to be binary and cannot be read as text")

	// ErrUnknownEncoding indicates that the registry has no charset for
	// the requested name.
	ErrUnknownEncoding = errors.New("textenc: unknown or unsupported encoding")

	// ErrBOMNotSupported indicates that AddBOM was requested for an
	// encoding that has no registered byte order mark. This is a caller
	// error, never silently ignored.
	ErrBOMNotSupported = errors.New("textenc: encoding does not define a byte order mark")

	// ErrIsDirectory is returned by the file BOM probe when the path
	// names a directory. Every other probe failure is swallowed as "no
	// BOM", but callers must be able to distinguish "missing or empty"
	// from "not actually a file".
	ErrIsDirectory = errors.New("textenc: path is a directory, not a file")

	// ErrClosed indicates use of a pipeline after Close.
	ErrClosed = errors.New("textenc: pipeline is closed")

	// ErrOverrideFailed wraps a failure of the injected encoding
	// override strategy during the deciding phase.
	ErrOverrideFailed = errors.New("textenc: encoding override strategy failed")
)
