package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/linebuf/internal/engine/buffer"
)

// DefaultTimeout bounds a single Run or RunFile call.
const DefaultTimeout = 5 * time.Second

// State is a Lua interpreter bound to one document.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes calls
// from Go.
type State struct {
	L   *lua.LState
	doc *buffer.Document

	mu      sync.Mutex
	timeout time.Duration
	out     io.Writer
	logger  *zap.Logger
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the per-call execution timeout. Zero disables it.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithOutput sets where print writes. Defaults to stdout.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.out = w
		}
	}
}

// WithLogger sets the state's logger.
func WithLogger(l *zap.Logger) StateOption {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewState creates a sandboxed Lua state exposing doc.
func NewState(doc *buffer.Document, opts ...StateOption) (*State, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	s := &State{
		doc:     doc,
		timeout: DefaultTimeout,
		out:     os.Stdout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	s.L = L

	openSafeLibraries(L)
	L.SetGlobal("print", L.NewFunction(s.print))
	registerMarkType(L)
	L.SetGlobal("doc", newDocModule(L, doc))

	return s, nil
}

// openSafeLibraries opens only the base, table, string and math libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Base functions that reach the file system.
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetTop(0)
}

// print writes its arguments, tab separated, to the configured output.
func (s *State) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(s.out, strings.Join(parts, "\t"))
	return 0
}

// Document returns the bound document.
func (s *State) Document() *buffer.Document {
	return s.doc
}

// Run executes a chunk of Lua code.
func (s *State) Run(ctx context.Context, code string) error {
	return s.exec(ctx, "<string>", func() error {
		return s.L.DoString(code)
	})
}

// RunFile executes the Lua file at path.
func (s *State) RunFile(ctx context.Context, path string) error {
	return s.exec(ctx, path, func() error {
		return s.L.DoFile(path)
	})
}

// exec runs fn under the state's lock, context and timeout.
func (s *State) exec(ctx context.Context, chunk string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: lua panic: %v", chunk, r)
		}
		s.logger.Debug("script finished", zap.String("chunk", chunk),
			zap.Duration("elapsed", time.Since(start)), zap.Error(err))
	}()

	if err := fn(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", chunk, ctxErr)
		}
		return fmt.Errorf("%s: %w", chunk, err)
	}
	return nil
}

// Close releases the interpreter. The document is left open.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
