package command

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/go-theft-craft/oreveins/internal/server/player"
)

// ErrOutOfBounds is carried by a number argument that parsed but fell
// outside the consumer's range.
var ErrOutOfBounds = errors.New("number out of bounds")

// Arg is one consumed argument. Err is set when the text was accepted but
// the value is unusable, so the executor can report it.
type Arg struct {
	Raw   string
	Value any
	Err   error
}

// Args holds consumed arguments by name.
type Args map[string]Arg

func (a Args) String(name string) (string, bool) {
	arg, ok := a[name]
	if !ok {
		return "", false
	}
	s, ok := arg.Value.(string)
	return s, ok
}

func (a Args) Players(name string) ([]*player.Player, bool) {
	arg, ok := a[name]
	if !ok {
		return nil, false
	}
	ps, ok := arg.Value.([]*player.Player)
	return ps, ok
}

// Tokens is the unread part of a command line.
type Tokens struct {
	parts []string
	pos   int
}

func tokenize(line string) *Tokens {
	return &Tokens{parts: strings.Fields(line)}
}

func (t *Tokens) Pop() (string, bool) {
	if t.pos >= len(t.parts) {
		return "", false
	}
	s := t.parts[t.pos]
	t.pos++
	return s, true
}

// Rest consumes everything left, joined by single spaces.
func (t *Tokens) Rest() string {
	s := strings.Join(t.parts[t.pos:], " ")
	t.pos = len(t.parts)
	return s
}

func (t *Tokens) Empty() bool { return t.pos >= len(t.parts) }

func (t *Tokens) clone() *Tokens {
	c := *t
	return &c
}

// Consumer turns tokens into an argument value. Consume returns false when
// the input is not valid for this argument.
type Consumer interface {
	Consume(env *Env, sender Sender, t *Tokens) (Arg, bool)
	Suggest(env *Env, sender Sender, partial string) []string
}

// NamedConsumer is a consumer with a name of its own, used by
// ArgumentDefaultName.
type NamedConsumer interface {
	Consumer
	DefaultName() string
}

// SimpleArgConsumer accepts any single word.
type SimpleArgConsumer struct{}

func (SimpleArgConsumer) Consume(_ *Env, _ Sender, t *Tokens) (Arg, bool) {
	s, ok := t.Pop()
	if !ok {
		return Arg{}, false
	}
	return Arg{Raw: s, Value: s}, true
}

func (SimpleArgConsumer) Suggest(*Env, Sender, string) []string { return nil }

// GreedyStringConsumer takes the rest of the line. It needs at least one word.
type GreedyStringConsumer struct{}

func (GreedyStringConsumer) Consume(_ *Env, _ Sender, t *Tokens) (Arg, bool) {
	if t.Empty() {
		return Arg{}, false
	}
	s := t.Rest()
	return Arg{Raw: s, Value: s}, true
}

func (GreedyStringConsumer) Suggest(*Env, Sender, string) []string { return nil }

// LiteralChoices accepts one of a fixed set of words, case-insensitively.
type LiteralChoices []string

func (c LiteralChoices) Consume(_ *Env, _ Sender, t *Tokens) (Arg, bool) {
	s, ok := t.Pop()
	if !ok {
		return Arg{}, false
	}
	for _, choice := range c {
		if strings.EqualFold(choice, s) {
			return Arg{Raw: s, Value: choice}, true
		}
	}
	return Arg{}, false
}

func (c LiteralChoices) Suggest(_ *Env, _ Sender, partial string) []string {
	return filterStrings(partial, c)
}

// Number is the set of types BoundedNumConsumer can parse.
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// BoundedNumConsumer parses a number. A number outside [min, max] is still
// consumed, with Arg.Err set to ErrOutOfBounds.
type BoundedNumConsumer[T Number] struct {
	name     string
	min, max *T
}

func NewBoundedNum[T Number]() *BoundedNumConsumer[T] {
	return &BoundedNumConsumer[T]{}
}

func (b *BoundedNumConsumer[T]) Name(name string) *BoundedNumConsumer[T] {
	b.name = name
	return b
}

func (b *BoundedNumConsumer[T]) Min(v T) *BoundedNumConsumer[T] {
	b.min = &v
	return b
}

func (b *BoundedNumConsumer[T]) Max(v T) *BoundedNumConsumer[T] {
	b.max = &v
	return b
}

func (b *BoundedNumConsumer[T]) DefaultName() string {
	if b.name != "" {
		return b.name
	}
	return "number"
}

func (b *BoundedNumConsumer[T]) Consume(_ *Env, _ Sender, t *Tokens) (Arg, bool) {
	s, ok := t.Pop()
	if !ok {
		return Arg{}, false
	}
	v, err := parseNumber[T](s)
	if err != nil {
		return Arg{}, false
	}
	arg := Arg{Raw: s, Value: v}
	if (b.min != nil && v < *b.min) || (b.max != nil && v > *b.max) {
		arg.Err = fmt.Errorf("%w: %s", ErrOutOfBounds, s)
	}
	return arg, true
}

func (b *BoundedNumConsumer[T]) Suggest(*Env, Sender, string) []string { return nil }

// Find looks the consumer's argument up under its default name. found is
// false when the argument was not given; err is the bounds error, if any.
func (b *BoundedNumConsumer[T]) Find(args Args) (v T, found bool, err error) {
	arg, ok := args[b.DefaultName()]
	if !ok {
		return v, false, nil
	}
	if arg.Err != nil {
		return v, true, arg.Err
	}
	v, ok = arg.Value.(T)
	if !ok {
		return v, true, fmt.Errorf("argument %s is %T", b.DefaultName(), arg.Value)
	}
	return v, true, nil
}

func parseNumber[T Number](s string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int32:
		n, err := strconv.ParseInt(s, 10, 32)
		return T(n), err
	case int64:
		n, err := strconv.ParseInt(s, 10, 64)
		return T(n), err
	case float32:
		f, err := strconv.ParseFloat(s, 32)
		return T(f), err
	default:
		f, err := strconv.ParseFloat(s, 64)
		return T(f), err
	}
}

// PlayersConsumer selects online players: @a (all), @s (the sender),
// @p (nearest to the sender), @r (one at random) or a name.
type PlayersConsumer struct{}

func (PlayersConsumer) Consume(env *Env, sender Sender, t *Tokens) (Arg, bool) {
	s, ok := t.Pop()
	if !ok {
		return Arg{}, false
	}
	players, ok := selectPlayers(env.Players, sender, s)
	if !ok {
		return Arg{}, false
	}
	return Arg{Raw: s, Value: players}, true
}

func (PlayersConsumer) Suggest(env *Env, _ Sender, partial string) []string {
	out := filterStrings(partial, []string{"@a", "@p", "@r", "@s"})
	return append(out, matchPlayerNames(partial, env.Players)...)
}

func selectPlayers(m *player.Manager, sender Sender, sel string) ([]*player.Player, bool) {
	switch sel {
	case "@a":
		return m.All(), true
	case "@s":
		p, ok := sender.Player()
		if !ok {
			return nil, false
		}
		return []*player.Player{p}, true
	case "@r":
		all := m.All()
		if len(all) == 0 {
			return nil, true
		}
		return []*player.Player{all[rand.IntN(len(all))]}, true
	case "@p":
		all := m.All()
		if len(all) == 0 {
			return nil, true
		}
		self, ok := sender.Player()
		if !ok {
			return all[:1], true
		}
		nearest := all[0]
		for _, p := range all[1:] {
			if p.DistanceSq(self) < nearest.DistanceSq(self) {
				nearest = p
			}
		}
		return []*player.Player{nearest}, true
	}
	if p := m.GetByName(sel); p != nil {
		return []*player.Player{p}, true
	}
	return nil, false
}

func matchPlayerNames(partial string, players *player.Manager) []string {
	partial = strings.ToLower(partial)
	var matches []string
	players.ForEach(func(p *player.Player) {
		if partial == "" || strings.HasPrefix(strings.ToLower(p.Username), partial) {
			matches = append(matches, p.Username)
		}
	})
	return matches
}

func filterStrings(partial string, options []string) []string {
	partial = strings.ToLower(partial)
	var matches []string
	for _, opt := range options {
		if strings.HasPrefix(strings.ToLower(opt), partial) {
			matches = append(matches, opt)
		}
	}
	return matches
}
