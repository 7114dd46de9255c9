package session

// requestNotFoundError signals an unknown request id for 404 mapping.
type requestNotFoundError struct{ id string }

func (e requestNotFoundError) Error() string { return "request not found: " + e.id }

func ErrRequestNotFound(id string) error { return requestNotFoundError{id: id} }

// IsRequestNotFound reports whether err indicates a missing request id.
func IsRequestNotFound(err error) bool {
	_, ok := err.(requestNotFoundError)
	return ok
}

// invalidRequestError signals a malformed start payload for 400 mapping.
type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string { return "invalid request: " + e.msg }

func ErrInvalidRequest(msg string) error { return invalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err indicates a malformed start payload.
func IsInvalidRequest(err error) bool {
	_, ok := err.(invalidRequestError)
	return ok
}

// authorizationDeniedError signals a request the current grant can never
// satisfy (prompting is disabled) for 403 mapping.
type authorizationDeniedError struct{ need string }

func (e authorizationDeniedError) Error() string { return "authorization denied: requires " + e.need }

func ErrAuthorizationDenied(need string) error { return authorizationDeniedError{need: need} }

// IsAuthorizationDenied reports whether err indicates an unsatisfiable grant.
func IsAuthorizationDenied(err error) bool {
	_, ok := err.(authorizationDeniedError)
	return ok
}

// sessionClosedError signals operations on a closed session for 503 mapping.
type sessionClosedError struct{}

func (sessionClosedError) Error() string { return "session closed" }

// IsSessionClosed reports whether err indicates the session was closed.
func IsSessionClosed(err error) bool {
	_, ok := err.(sessionClosedError)
	return ok
}
