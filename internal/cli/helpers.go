package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it remembers which signal arrived.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}
	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sc.sigCh)
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
	}()
	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// ReadToken resolves a circuit argument:
//   - "" or "demo": the built-in demo circuit
//   - "-": read from stdin
//   - an existing file: its contents
//   - anything else: the token itself
//
// Contents in the multi-line text form are tokenized.
func ReadToken(arg string, stdin io.Reader) (string, error) {
	var text string
	switch {
	case arg == "" || arg == "demo":
		return circuit.DemoToken, nil
	case arg == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read circuit from stdin: %w", err)
		}
		text = string(b)
	default:
		b, err := os.ReadFile(arg)
		switch {
		case err == nil:
			text = string(b)
		case errors.Is(err, os.ErrNotExist):
			text = arg
		default:
			return "", fmt.Errorf("failed to read circuit file: %w", err)
		}
	}
	clean, err := codec.Sanitize(text)
	if err != nil {
		return "", err
	}
	return codec.Tokenize(strings.TrimSpace(clean)), nil
}

// ParseFires parses scheduled fires written as "node" (fire before the
// first tick) or "tick:node".
func ParseFires(specs []string) ([]circuit.ScheduledFire, error) {
	fires := make([]circuit.ScheduledFire, 0, len(specs))
	for _, spec := range specs {
		tickStr, nodeStr, found := strings.Cut(spec, ":")
		if !found {
			tickStr, nodeStr = "0", spec
		}
		tick, err := strconv.ParseUint(strings.TrimSpace(tickStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fire %q: bad tick: %w", spec, err)
		}
		node, err := strconv.Atoi(strings.TrimSpace(nodeStr))
		if err != nil || node < 0 {
			return nil, fmt.Errorf("invalid fire %q: node must be a non-negative integer", spec)
		}
		fires = append(fires, circuit.ScheduledFire{Tick: tick, Node: node})
	}
	return fires, nil
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError treats interruptions as a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
