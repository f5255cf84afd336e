package coordinator

import "errors"

// Rejection reasons returned to command callers. Each maps to a stable
// client-facing code via CodeOf; none are retried by the coordinator.
var (
	ErrNotFound            = errors.New("room not found")
	ErrAlreadyExists       = errors.New("room code already in use")
	ErrNotJoinable         = errors.New("room is not joinable")
	ErrAlreadyMember       = errors.New("identity already joined this room")
	ErrForbidden           = errors.New("only the host may do this")
	ErrInvalidState        = errors.New("room is not in a valid state for this command")
	ErrNoContent           = errors.New("no quiz content available")
	ErrNotMember           = errors.New("identity never joined this room")
	ErrDuplicateSubmission = errors.New("result already submitted")
	ErrBadRequest          = errors.New("malformed command input")
)

var errorCodes = map[error]string{
	ErrNotFound:            "NOT_FOUND",
	ErrAlreadyExists:       "ALREADY_EXISTS",
	ErrNotJoinable:         "NOT_JOINABLE",
	ErrAlreadyMember:       "ALREADY_MEMBER",
	ErrForbidden:           "FORBIDDEN",
	ErrInvalidState:        "INVALID_STATE",
	ErrNoContent:           "NO_CONTENT",
	ErrNotMember:           "NOT_MEMBER",
	ErrDuplicateSubmission: "DUPLICATE_SUBMISSION",
	ErrBadRequest:          "BAD_REQUEST",
}

// CodeOf returns the wire code for a rejection, or "INTERNAL" for anything
// that is not part of the taxonomy
func CodeOf(err error) string {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "INTERNAL"
}
