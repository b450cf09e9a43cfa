// Package logger provides the diagnostic collaborator shared by every hyperbox object.
//
// A Logger is constructed explicitly and handed to constructors. Each object acquires
// its own Handle on construction and releases it when closed; once the last handle is
// released any file opened with SetOutput is closed and output reverts to the configured
// writer.
//
// All methods accept a nil receiver, so objects built without a logger run silently.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/akmonengine/hyperbox/errcode"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger is a reference counted, structured failure log.
type Logger struct {
	mu sync.Mutex

	writer io.Writer
	level  slog.Level
	json   bool
	reg    prometheus.Registerer

	file     *os.File
	slog     *slog.Logger
	clients  map[uuid.UUID]struct{}
	seq      uint64
	failures *prometheus.CounterVec
}

// Option configures a Logger.
type Option func(*Logger)

// WithWriter sets the default output. It defaults to os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.writer = w
		}
	}
}

// WithLevel sets the minimum level records must have to be written.
func WithLevel(level slog.Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithJSON switches the output to JSON lines.
func WithJSON() Option {
	return func(l *Logger) {
		l.json = true
	}
}

// WithRegisterer counts logged failures per code in a hyperbox_failures_total counter
// registered on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(l *Logger) {
		l.reg = reg
	}
}

// New creates a Logger with no clients.
func New(opts ...Option) *Logger {
	l := &Logger{
		writer:  os.Stderr,
		level:   slog.LevelInfo,
		clients: make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.slog = l.newSlog(l.writer)

	if l.reg != nil {
		l.failures = registerFailures(l.reg)
	}

	return l
}

func registerFailures(reg prometheus.Registerer) *prometheus.CounterVec {
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hyperbox",
		Name:      "failures_total",
		Help:      "Number of failed operations, by error code.",
	}, []string{"code"})

	if err := reg.Register(failures); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		return nil
	}
	return failures
}

func (l *Logger) newSlog(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Acquire registers a new client and returns its handle.
func (l *Logger) Acquire() *Handle {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	id := uuid.New()
	l.clients[id] = struct{}{}
	return &Handle{id: id, owner: l}
}

// Clients returns the number of handles not yet released.
func (l *Logger) Clients() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Logger) release(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.clients[id]; !ok {
		return
	}
	delete(l.clients, id)

	if len(l.clients) == 0 {
		l.closeFile()
		l.slog = l.newSlog(l.writer)
	}
}

// Close closes any file opened with SetOutput and reverts output to the configured
// writer. Handles stay valid and the Logger can be redirected again.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	_ = l.file.Sync()
	err := l.file.Close()
	l.file = nil
	l.slog = l.newSlog(l.writer)
	if err != nil {
		return &errcode.Error{Op: "logger.Close", Code: errcode.CannotOpenResource, Msg: err.Error()}
	}
	return nil
}

// closeFile must be called with mu held.
func (l *Logger) closeFile() {
	if l.file == nil {
		return
	}
	_ = l.file.Sync()
	_ = l.file.Close()
	l.file = nil
}

// SetOutput redirects the log to the file at path, truncating it.
// On failure output reverts to the configured writer and a CannotOpenResource error is returned.
func (l *Logger) SetOutput(path string) error {
	if l == nil {
		return errcode.New("logger.SetOutput", errcode.RequiresInitialization)
	}
	if path == "" {
		return errcode.New("logger.SetOutput", errcode.NullInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.closeFile()
	f, err := os.Create(path)
	if err != nil {
		l.slog = l.newSlog(l.writer)
		return &errcode.Error{Op: "logger.SetOutput", Code: errcode.CannotOpenResource, Msg: err.Error()}
	}
	l.file = f
	l.slog = l.newSlog(f)
	return nil
}

// Log records a failure of op. An empty message logs the code's default description.
func (l *Logger) Log(op, message string, code errcode.Code) {
	l.log(uuid.Nil, op, message, code)
}

// Error records err under op, using the code carried by err.
func (l *Logger) Error(op string, err error) {
	if err == nil {
		return
	}
	l.log(uuid.Nil, op, err.Error(), errcode.Of(err))
}

func (l *Logger) log(client uuid.UUID, op, message string, code errcode.Code) {
	if l == nil {
		return
	}
	if message == "" {
		message = code.Description()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	attrs := []slog.Attr{
		slog.Uint64("seq", l.seq),
		slog.String("op", op),
		slog.String("code", code.String()),
		slog.Int("rc", int(code)),
	}
	if client != uuid.Nil {
		attrs = append(attrs, slog.String("client", client.String()))
	}
	l.slog.LogAttrs(context.Background(), slog.LevelError, message, attrs...)

	if l.failures != nil {
		l.failures.WithLabelValues(code.String()).Inc()
	}
}

// Handle is one client's share of a Logger.
type Handle struct {
	id    uuid.UUID
	owner *Logger
}

// ID identifies the client in log records.
func (h *Handle) ID() uuid.UUID {
	if h == nil {
		return uuid.Nil
	}
	return h.id
}

// Logger returns the shared logger the handle was acquired from.
func (h *Handle) Logger() *Logger {
	if h == nil {
		return nil
	}
	return h.owner
}

// Log records a failure of op attributed to this client.
func (h *Handle) Log(op, message string, code errcode.Code) {
	if h == nil {
		return
	}
	h.owner.log(h.id, op, message, code)
}

// Error records err under op, attributed to this client.
func (h *Handle) Error(op string, err error) {
	if h == nil || err == nil {
		return
	}
	h.owner.log(h.id, op, err.Error(), errcode.Of(err))
}

// SetOutput redirects the shared logger, see Logger.SetOutput.
func (h *Handle) SetOutput(path string) error {
	if h == nil {
		return errcode.New("logger.SetOutput", errcode.RequiresInitialization)
	}
	return h.owner.SetOutput(path)
}

// Release gives the handle back. Releasing twice is a no-op.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	h.owner.release(h.id)
}
