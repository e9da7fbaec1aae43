package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/callkit/core/config"
)

var (
	ErrInvalidConfig      = errors.New("invalid s3 configuration")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("s3 service unavailable")
	ErrOperationTimeout   = errors.New("s3 operation timeout")
	ErrOperationCanceled  = errors.New("s3 operation canceled")
	ErrInvalidDocument    = errors.New("invalid configuration document")
)

// classifyError converts S3 errors into package and config errors.
// A missing object becomes config.ErrSourceNotFound so config.Optional can skip it.
func classifyError(err error, location string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: get %s", ErrOperationTimeout, location)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: get %s", ErrOperationCanceled, location)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", config.ErrSourceNotFound, location)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, location)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.ErrorCode(); code {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", config.ErrSourceNotFound, location)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s", ErrBucketNotFound, location)
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, location)
		case "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return fmt.Errorf("%w: %s: %w", ErrServiceUnavailable, location, err)
		default:
			return fmt.Errorf("get %s failed (code: %s): %w", location, code, err)
		}
	}

	return fmt.Errorf("get %s: %w", location, err)
}
