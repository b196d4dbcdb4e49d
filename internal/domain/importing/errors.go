package importing

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid import status")
	ErrInvalidTransition = errors.New("invalid import status transition")
	ErrUnknownEntityKind = errors.New("unknown import entity kind")
)
