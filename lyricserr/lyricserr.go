// Package lyricserr defines the typed error kinds shared across providers,
// ciphers, parsers, and the fetch coordinator. It mirrors the shape of
// services/providers/types.go's ProviderError, generalized to a closed kind
// enum instead of a provider-name string.
package lyricserr

// Kind is the closed set of failure categories callers can branch on.
type Kind string

const (
	KindRequest    Kind = "request"    // network/HTTP transport failure
	KindParams     Kind = "params"     // malformed or rejected request parameters
	KindNotFound   Kind = "not_found"  // no lyrics/candidates available
	KindDecrypt    Kind = "decrypt"    // cipher or inflate failure
	KindProcessing Kind = "processing" // parsing/rendering/alignment failure
	KindTranslate  Kind = "translate"  // translation backend failure
)

// Error is the single error type used throughout this module. Source, when
// non-empty, names the provider or component that raised it.
type Error struct {
	Kind    Kind
	Source  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Source != "" {
		prefix = e.Source + " " + prefix
	}
	if e.Err != nil {
		return prefix + ": " + e.Message + ": " + e.Err.Error()
	}
	return prefix + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func new_(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewRequestError wraps a transport failure (non-2xx, timeout, dial error).
func NewRequestError(message string, err error) *Error { return new_(KindRequest, message, err) }

// NewParamsError wraps a rejected or malformed request parameter.
func NewParamsError(message string, err error) *Error { return new_(KindParams, message, err) }

// NewNotFoundError wraps an empty search/fetch result.
func NewNotFoundError(message string, err error) *Error { return new_(KindNotFound, message, err) }

// NewDecryptError wraps a cipher or inflate failure.
func NewDecryptError(message string, err error) *Error { return new_(KindDecrypt, message, err) }

// NewProcessingError wraps a parsing, rendering, or alignment failure.
func NewProcessingError(message string, err error) *Error {
	return new_(KindProcessing, message, err)
}

// NewTranslateError wraps a translation backend failure.
func NewTranslateError(message string, err error) *Error {
	return new_(KindTranslate, message, err)
}

// WithSource returns a copy of e tagged with the raising component's name.
func (e *Error) WithSource(source string) *Error {
	cp := *e
	cp.Source = source
	return &cp
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	le, ok := err.(*Error)
	return ok && le.Kind == kind
}
