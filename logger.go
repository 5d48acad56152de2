package gameloop

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gameloop/backend"
)

// silent is installed until SetLogger is called and whenever it gets nil.
var silent = slog.New(slog.DiscardHandler)

// current holds the package logger. SetLogger may race with logging from
// any goroutine, so it is swapped atomically.
var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger installs l for every Session and for the drivers of open
// sessions. Sessions log nothing until it is called; nil silences them again.
// It may be called from any goroutine.
//
// Log levels used by gameloop:
//   - [slog.LevelDebug]: per-frame and lifecycle notifications
//   - [slog.LevelInfo]: device created, feature level, surface rebuilt
//   - [slog.LevelWarn]: device lost, recovery started
//   - [slog.LevelError]: fatal session errors
//
// Example:
//
//	gameloop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)

	driversMu.Lock()
	defer driversMu.Unlock()
	for d := range drivers {
		propagateLogger(d, l)
	}
}

// Logger returns the installed logger. It never returns nil.
func Logger() *slog.Logger { return current.Load() }

// propagateLogger hands l to drivers with their own package logger.
func propagateLogger(d backend.Driver, l *slog.Logger) {
	if ls, ok := d.(interface{ SetLogger(*slog.Logger) }); ok {
		ls.SetLogger(l)
	}
}

// drivers holds the drivers of open sessions, counted per session.
var (
	driversMu sync.Mutex
	drivers   = map[backend.Driver]int{}
)

// trackDriver hands the current logger to d and keeps it for later SetLogger calls.
func trackDriver(d backend.Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[d]++
	propagateLogger(d, Logger())
}

func untrackDriver(d backend.Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if drivers[d] <= 1 {
		delete(drivers, d)
		return
	}
	drivers[d]--
}

// sharedHandler forwards each record to the logger installed at the time of
// the call, so components built once still follow later SetLogger calls.
type sharedHandler struct{}

func (sharedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (sharedHandler) Handle(ctx context.Context, r slog.Record) error {
	return Logger().Handler().Handle(ctx, r)
}

func (sharedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Logger().Handler().WithAttrs(attrs)
}

func (sharedHandler) WithGroup(name string) slog.Handler {
	return Logger().Handler().WithGroup(name)
}
