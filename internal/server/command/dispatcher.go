// Package command parses and runs chat and console commands.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/internal/server/scoreboard"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrInvalidRequirement = errors.New("sender does not meet the command's requirements")
)

// SyntaxError means the line did not fit any form of the command. Arg names
// the argument that failed to parse, or is empty when the line was
// incomplete or too long.
type SyntaxError struct {
	Command string
	Arg     string
}

func (e *SyntaxError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("incomplete or trailing arguments for %s", e.Command)
	}
	return fmt.Sprintf("invalid argument %s for %s", e.Arg, e.Command)
}

// Env is the server state commands act on.
type Env struct {
	Players    *player.Manager
	Scoreboard *scoreboard.Scoreboard
	Seed       int64
	// Save persists the world. Nil when saving is not available.
	Save func(ctx context.Context) error
	Log  *slog.Logger
}

// Observer is told about every dispatched command.
type Observer interface {
	CommandDispatched(name string, err error)
}

// Dispatcher owns the registered command trees.
type Dispatcher struct {
	mu       sync.RWMutex
	trees    map[string]*Tree // by name and alias
	env      *Env
	observer Observer
}

func NewDispatcher(env *Env) *Dispatcher {
	return &Dispatcher{trees: make(map[string]*Tree), env: env}
}

// SetObserver installs o. Call before dispatching.
func (d *Dispatcher) SetObserver(o Observer) { d.observer = o }

// Register adds t under all its names. A later tree replaces an earlier one
// with the same name.
func (d *Dispatcher) Register(t *Tree) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range t.Names {
		d.trees[strings.ToLower(name)] = t
	}
}

func (d *Dispatcher) lookup(name string) (*Tree, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.trees[strings.ToLower(name)]
	return t, ok
}

// Trees returns the registered trees, each once, sorted by primary name.
func (d *Dispatcher) Trees() []*Tree {
	d.mu.RLock()
	seen := make(map[*Tree]bool)
	var out []*Tree
	for _, t := range d.trees {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Usages returns the forms of the named command.
func (d *Dispatcher) Usages(name string) ([]string, error) {
	t, ok := d.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return t.usages(), nil
}

// Dispatch parses line (without the leading slash) and runs the matching
// executor.
func (d *Dispatcher) Dispatch(ctx context.Context, sender Sender, line string) error {
	tokens := tokenize(line)
	name, ok := tokens.Pop()
	if !ok {
		return fmt.Errorf("%w: empty command", ErrUnknownCommand)
	}
	err := d.dispatch(ctx, sender, name, tokens)
	if d.observer != nil {
		d.observer.CommandDispatched(strings.ToLower(name), err)
	}
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, sender Sender, name string, tokens *Tokens) error {
	t, ok := d.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	w := &walkState{env: d.env, sender: sender}
	m, ok := w.walk(t.root, tokens, Args{}, 0)
	if !ok {
		if w.denied && w.badArg == "" {
			return ErrInvalidRequirement
		}
		return &SyntaxError{Command: t.Name(), Arg: w.badArg}
	}

	return m.exec(ctx, &Invocation{Sender: sender, Args: m.args, Env: d.env})
}

// Handle dispatches line and reports failures to the sender in red.
func (d *Dispatcher) Handle(ctx context.Context, sender Sender, line string) {
	err := d.Dispatch(ctx, sender, line)
	if err == nil {
		return
	}

	var msg string
	var synErr *SyntaxError
	switch {
	case errors.Is(err, ErrUnknownCommand):
		msg = fmt.Sprintf("Unknown command: /%s. Type /help for a list of commands.", firstWord(line))
	case errors.Is(err, ErrInvalidRequirement):
		msg = "You cannot run this command."
	case errors.As(err, &synErr):
		usages, _ := d.Usages(synErr.Command)
		if synErr.Arg != "" {
			msg = fmt.Sprintf("Invalid value for <%s>. Usage: /%s", synErr.Arg, strings.Join(usages, " | /"))
		} else {
			msg = "Usage: /" + strings.Join(usages, " | /")
		}
	default:
		d.env.Log.Error("command failed", "sender", sender.Name(), "command", line, "error", err)
		msg = "An error occurred while running this command."
	}
	_ = sender.SendMessage(text.Text(msg).WithColor(text.Red))
}

// Complete returns the suggestions for the last word of line and the byte
// offset in line where that word starts.
func (d *Dispatcher) Complete(sender Sender, line string) (start int, matches []string) {
	trailing := line == "" || strings.HasSuffix(line, " ")
	parts := strings.Fields(line)

	var partial string
	if !trailing && len(parts) > 0 {
		partial = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}
	start = len(line) - len(partial)

	if len(parts) == 0 {
		for _, t := range d.Trees() {
			for _, name := range t.Names {
				if strings.HasPrefix(name, strings.ToLower(partial)) {
					matches = append(matches, name)
				}
			}
		}
		sort.Strings(matches)
		return start, matches
	}

	t, ok := d.lookup(parts[0])
	if !ok {
		return start, nil
	}
	w := &walkState{env: d.env, sender: sender}
	w.suggest(t.root, &Tokens{parts: parts[1:]}, Args{}, partial, &matches)
	return start, dedupe(matches)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func firstWord(line string) string {
	if f := strings.Fields(line); len(f) > 0 {
		return f[0]
	}
	return ""
}
