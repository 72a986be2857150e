package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	bucketKey    contextKey = "bucket"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBucket annotates context with the bucket being worked on.
func WithBucket(ctx context.Context, bucket string) context.Context {
	if bucket == "" {
		return ctx
	}
	return context.WithValue(ctx, bucketKey, bucket)
}

// BucketFromContext returns the bucket name if present.
func BucketFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(bucketKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
