package async

import "errors"

var (
	ErrTimeout   = errors.New("async: await timed out")
	ErrNoFutures = errors.New("async: no futures provided")
)
