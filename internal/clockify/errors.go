package clockify

import (
	"fmt"
	"strings"

	"dcl/internal/services"
)

const maxErrorBody = 512

// RemoteError reports a non-2xx response from Clockify.
type RemoteError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("clockify %s %s returned %d", e.Method, e.Path, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return services.ErrRemote
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
