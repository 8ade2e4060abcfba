package desktop

import (
	"context"
	"errors"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ErrWindowUnavailable means the context carries no live Wails window.
var ErrWindowUnavailable = errors.New("window unavailable")

// frontendContextKey is the key Wails stores its frontend under in the
// startup context. runtime calls abort the process when it is missing.
const frontendContextKey = "frontend"

func defaultCloseWindow(ctx context.Context) error {
	if ctx == nil || ctx.Value(frontendContextKey) == nil {
		return ErrWindowUnavailable
	}
	runtime.Quit(ctx)
	return nil
}
