package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"dcl/internal/clockify"
	"dcl/internal/config"
	"dcl/internal/store"
)

const clockifyCheckTimeout = 10 * time.Second

// CheckClockify verifies the API is reachable and the key is accepted.
func CheckClockify(ctx context.Context, cfg *config.Config) Result {
	const name = "Clockify API"
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "api key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, clockifyCheckTimeout)
	defer cancel()

	client, err := clockify.NewFromConfig(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	user, err := client.CurrentUser(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeClockifyError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("authenticated (workspace %s)", user.DefaultWorkspace)}
}

// CheckCache opens the cache database, creating it when absent, and reports
// how many projects it holds.
func CheckCache(ctx context.Context, path string) Result {
	const name = "Cache database"
	st, err := store.OpenPath(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer st.Close()

	projects, err := st.Count(ctx, store.KindProject)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d projects cached)", path, projects)}
}

// CheckBuckets reports whether any buckets are configured.
func CheckBuckets(cfg *config.Config) Result {
	const name = "Buckets"
	if len(cfg.Buckets) == 0 {
		return Result{Name: name, Detail: "no buckets configured"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d configured", len(cfg.Buckets))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeClockifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (Clockify unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (Clockify unreachable)"
	}
	var remoteErr *clockify.RemoteError
	if errors.As(err, &remoteErr) {
		switch remoteErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "auth failed (invalid api key)"
		default:
			return fmt.Sprintf("auth check failed (%d)", remoteErr.Status)
		}
	}
	return err.Error()
}
