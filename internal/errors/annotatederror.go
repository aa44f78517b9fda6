// Package errors extends the standard library errors with slog annotations
// and source locations so that failures log with enough context to debug.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// annotatedError carries a message, an optional wrapped error, slog attributes
// for structured logging, and the source location where it was created.
type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source slog.Source
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callerSource resolves the source location skip frames above the caller.
func callerSource(skip int) slog.Source {
	var pcs [1]uintptr
	// skip runtime.Callers and callerSource itself.
	runtime.Callers(skip+2, pcs[:]) //nolint:mnd // see comment above.
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	return slog.Source{
		Function: frame.Function,
		File:     frame.File,
		Line:     frame.Line,
	}
}

// New creates an annotated error with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    nil,
		attrs:  attrs,
		source: callerSource(1),
	}
}

// NewSentinel creates an error intended for package-level sentinel values.
// It records no source location since the declaration site is not the
// interesting one.
func NewSentinel(msg string) error {
	return &annotatedError{
		msg:    msg,
		err:    nil,
		attrs:  nil,
		source: slog.Source{Function: "", File: "", Line: 0},
	}
}

// Wrap annotates err with a message and optional slog attributes. The source
// location of the Wrap call is recorded for logging with SlogError.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: callerSource(1),
	}
}

// DecoratePanic converts a recovered panic value into an annotated error
// pointing at the panic site.
func DecoratePanic(recovered any) error {
	const panicDepth = 3 // runtime.gopanic and the deferred recovery func.
	return &annotatedError{
		msg:    fmt.Sprintf("panic: %v", recovered),
		err:    nil,
		attrs:  nil,
		source: callerSource(panicDepth),
	}
}

// SlogError converts an error into a slog.Attr grouping the message, the
// collected annotations, and the innermost recorded source location.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}

	var (
		annotations []slog.Attr
		source      slog.Source
	)
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		if annotated, ok := unwrapped.(*annotatedError); ok {
			annotations = append(annotations, annotated.attrs...)
			if annotated.source.File != "" {
				source = annotated.source
			}
		}
	}

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		annotationArgs := make([]any, len(annotations))
		for i, attr := range annotations {
			annotationArgs[i] = attr
		}
		attrs = append(attrs, slog.Group("annotations", annotationArgs...))
	}
	if source.File != "" {
		attrs = append(attrs, slog.String("source", fmt.Sprintf("%s:%d", source.File, source.Line)))
	}

	return slog.Group("error", attrs...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join wraps the standard library errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap wraps the standard library errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
