package shared

// DomainError is an error raised by domain logic. The code is a stable
// machine-readable identifier; the message is for humans.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError with the given code and message
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// ErrNotFound is returned by repositories when a lookup matches nothing
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
