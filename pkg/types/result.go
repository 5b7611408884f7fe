package types

import pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"

// Result is the uniform outcome of every mutating operation. Expected
// failures never surface as Go errors to the presentation layer; the
// caller decides how to present Message.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK is the successful result.
func OK() Result {
	return Result{Success: true}
}

// Fail builds a failed result with a user-facing message.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// ResultFromError folds an error into the uniform result shape. Transport
// failures collapse to the generic network message so callers can keep
// server-reported text distinct from connectivity problems.
func ResultFromError(err error) Result {
	if err == nil {
		return OK()
	}
	if typed := pkgerrors.As(err); typed != nil {
		if typed.Code() == pkgerrors.CodeNetwork {
			return Fail(pkgerrors.MetadataFor(pkgerrors.CodeNetwork).PublicMessage)
		}
		if msg := typed.Message(); msg != "" {
			return Fail(msg)
		}
		return Fail(pkgerrors.MetadataFor(typed.Code()).PublicMessage)
	}
	return Fail(err.Error())
}
