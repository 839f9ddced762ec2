// Package scoreboard keeps the server-side objectives and scores and mirrors
// every change to the clients.
package scoreboard

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"unicode/utf8"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

var (
	ErrObjectiveExists  = errors.New("objective already exists")
	ErrUnknownObjective = errors.New("unknown objective")
	ErrInvalidName      = errors.New("invalid objective name")
)

// MaxNameLength is the longest objective name, in characters, that fits the
// protocol's string field.
const MaxNameLength = 32767

// Broadcaster delivers a packet to every connected client.
type Broadcaster interface {
	Broadcast(p mcnet.Packet)
}

// Scoreboard is safe for concurrent use. Packets are broadcast while the
// scoreboard lock is held so clients see changes in the order they happened.
type Scoreboard struct {
	mu         sync.RWMutex
	objectives map[string]Objective
	scores     map[string]map[string]Score // objective → entity → score
	display    map[DisplaySlot]string

	out Broadcaster
	log *slog.Logger
}

func New(out Broadcaster, log *slog.Logger) *Scoreboard {
	return &Scoreboard{
		objectives: make(map[string]Objective),
		scores:     make(map[string]map[string]Score),
		display:    make(map[DisplaySlot]string),
		out:        out,
		log:        log.With("component", "scoreboard"),
	}
}

// AddObjective registers o, announces it and shows it in the sidebar.
func (s *Scoreboard) AddObjective(o Objective) error {
	if o.Name == "" || utf8.RuneCountInString(o.Name) > MaxNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidName, o.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objectives[o.Name]; ok {
		s.log.Warn("tried to create an objective which already exists", "objective", o.Name)
		return fmt.Errorf("%w: %s", ErrObjectiveExists, o.Name)
	}
	s.objectives[o.Name] = o
	s.scores[o.Name] = make(map[string]Score)

	s.out.Broadcast(o.packet(packet.ObjectiveAdd))
	s.display[Sidebar] = o.Name
	s.out.Broadcast(&packet.DisplayObjective{Position: int32(Sidebar), ScoreName: o.Name})
	return nil
}

// UpdateObjective replaces the display fields of an existing objective.
func (s *Scoreboard) UpdateObjective(o Objective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objectives[o.Name]; !ok {
		s.log.Warn("tried to update an objective which does not exist", "objective", o.Name)
		return fmt.Errorf("%w: %s", ErrUnknownObjective, o.Name)
	}
	s.objectives[o.Name] = o
	s.out.Broadcast(o.packet(packet.ObjectiveUpdate))
	return nil
}

// RemoveObjective drops an objective with its scores and display slots.
func (s *Scoreboard) RemoveObjective(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.objectives[name]
	if !ok {
		s.log.Warn("tried to remove an objective which does not exist", "objective", name)
		return fmt.Errorf("%w: %s", ErrUnknownObjective, name)
	}
	delete(s.objectives, name)
	delete(s.scores, name)
	for slot, shown := range s.display {
		if shown == name {
			delete(s.display, slot)
		}
	}
	s.out.Broadcast(o.packet(packet.ObjectiveRemove))
	return nil
}

// UpdateScore records a score and broadcasts it. The objective must exist.
func (s *Scoreboard) UpdateScore(sc Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setScoreLocked(sc)
}

// AddScore adds delta to an entity's score, starting from zero, and
// returns the new value. The score keeps its display overrides.
func (s *Scoreboard) AddScore(entity, objective string, delta int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scores[objective][entity]
	if !ok {
		sc = NewScore(entity, objective, 0)
	}
	sc.Value += delta
	if err := s.setScoreLocked(sc); err != nil {
		return 0, err
	}
	return sc.Value, nil
}

func (s *Scoreboard) setScoreLocked(sc Score) error {
	entities, ok := s.scores[sc.ObjectiveName]
	if !ok {
		s.log.Warn("tried to place a score into an objective which does not exist",
			"objective", sc.ObjectiveName,
			"entity", sc.EntityName,
		)
		return fmt.Errorf("%w: %s", ErrUnknownObjective, sc.ObjectiveName)
	}
	entities[sc.EntityName] = sc

	s.out.Broadcast(sc.packet())
	return nil
}

// ResetScore removes an entity's score from objective, or from every
// objective when objective is empty.
func (s *Scoreboard) ResetScore(entity, objective string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if objective == "" {
		for _, entities := range s.scores {
			delete(entities, entity)
		}
	} else {
		entities, ok := s.scores[objective]
		if !ok {
			s.log.Warn("tried to reset a score in an objective which does not exist", "objective", objective)
			return fmt.Errorf("%w: %s", ErrUnknownObjective, objective)
		}
		delete(entities, entity)
	}

	s.out.Broadcast(&packet.ResetScore{EntityName: entity, ObjectiveName: objective})
	return nil
}

// SetDisplay shows objective in slot. An empty name clears the slot.
func (s *Scoreboard) SetDisplay(slot DisplaySlot, name string) error {
	if !slot.Valid() {
		return fmt.Errorf("invalid display slot %d", slot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		delete(s.display, slot)
	} else {
		if _, ok := s.objectives[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownObjective, name)
		}
		s.display[slot] = name
	}
	s.out.Broadcast(&packet.DisplayObjective{Position: int32(slot), ScoreName: name})
	return nil
}

// Objective returns the named objective.
func (s *Scoreboard) Objective(name string) (Objective, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objectives[name]
	return o, ok
}

// Objectives returns every objective sorted by name.
func (s *Scoreboard) Objectives() []Objective {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Objective, 0, len(s.objectives))
	for _, o := range s.objectives {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Score returns an entity's score in objective.
func (s *Scoreboard) Score(entity, objective string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scores[objective][entity]
	return sc.Value, ok
}

// Displayed returns the objective shown in slot, if any.
func (s *Scoreboard) Displayed(slot DisplaySlot) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.display[slot]
	return name, ok
}

// SyncTo replays the whole scoreboard to one client, e.g. after it joins.
func (s *Scoreboard) SyncTo(write func(mcnet.Packet) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.objectives))
	for name := range s.objectives {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := write(s.objectives[name].packet(packet.ObjectiveAdd)); err != nil {
			return fmt.Errorf("sync objective %s: %w", name, err)
		}
		entities := make([]string, 0, len(s.scores[name]))
		for entity := range s.scores[name] {
			entities = append(entities, entity)
		}
		sort.Strings(entities)
		for _, entity := range entities {
			if err := write(s.scores[name][entity].packet()); err != nil {
				return fmt.Errorf("sync score %s/%s: %w", name, entity, err)
			}
		}
	}
	for slot, name := range s.display {
		if err := write(&packet.DisplayObjective{Position: int32(slot), ScoreName: name}); err != nil {
			return fmt.Errorf("sync display %s: %w", slot, err)
		}
	}
	return nil
}

// Objective is a named score column.
type Objective struct {
	Name         string
	DisplayName  text.Component
	RenderType   RenderType
	NumberFormat *NumberFormat
}

// NewObjective returns an objective. A nil format uses the client default.
func NewObjective(name string, display text.Component, render RenderType, format *NumberFormat) Objective {
	return Objective{Name: name, DisplayName: display, RenderType: render, NumberFormat: format}
}

func (o Objective) packet(mode packet.ObjectiveMode) *packet.UpdateObjectives {
	return &packet.UpdateObjectives{
		Name:         o.Name,
		Mode:         mode,
		DisplayName:  o.DisplayName,
		RenderType:   int32(o.RenderType),
		NumberFormat: o.NumberFormat.wire(),
	}
}

// Score is one entity's value in an objective. DisplayName and NumberFormat
// are optional overrides.
type Score struct {
	EntityName    string
	ObjectiveName string
	Value         int32
	DisplayName   *text.Component
	NumberFormat  *NumberFormat
}

func NewScore(entity, objective string, value int32) Score {
	return Score{EntityName: entity, ObjectiveName: objective, Value: value}
}

func (sc Score) packet() *packet.UpdateScore {
	return &packet.UpdateScore{
		EntityName:    sc.EntityName,
		ObjectiveName: sc.ObjectiveName,
		Value:         sc.Value,
		DisplayName:   sc.DisplayName,
		NumberFormat:  sc.NumberFormat.wire(),
	}
}
