package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrUnknownEventType  = fmt.Errorf("unknown event type")
	ErrStreamUnsupported = fmt.Errorf("response writer does not support streaming")
	ErrStreamClosed      = fmt.Errorf("stream closed")
	ErrMalformedFrame    = fmt.Errorf("malformed event frame")
)
