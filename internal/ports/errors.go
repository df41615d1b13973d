package ports

import "errors"

var ErrNotFound = errors.New("not found")

var ErrConflict = errors.New("conflict")

// CodedError permet aux adapters de renvoyer un code d'erreur stable,
// repris dans les logs et les events de run.
//
// Exemples de codes: http_status, network_error, io_error, invalid_watchlist.
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

// ErrorCode renvoie le code du premier CodedError de la chaîne, "" sinon.
func ErrorCode(err error) string {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
