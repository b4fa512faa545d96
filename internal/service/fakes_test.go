package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Freeeeeet/pto_bot/internal/calendar"
	"github.com/Freeeeeet/pto_bot/internal/model"
)

type memoryLedger struct {
	mu        sync.Mutex
	links     map[string]model.PTOLink
	putErr    error
	findErr   error
	removeErr error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{links: make(map[string]model.PTOLink)}
}

func (l *memoryLedger) Put(_ context.Context, link *model.PTOLink) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.putErr != nil {
		return l.putErr
	}
	l.links[link.MessageID] = *link
	return nil
}

func (l *memoryLedger) Find(_ context.Context, messageID string) (*model.PTOLink, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.findErr != nil {
		return nil, l.findErr
	}
	link, ok := l.links[messageID]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

func (l *memoryLedger) Remove(_ context.Context, messageID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.removeErr != nil {
		return l.removeErr
	}
	delete(l.links, messageID)
	return nil
}

func (l *memoryLedger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.links)
}

type memoryChannelStore struct {
	mu       sync.Mutex
	mappings map[string]model.ChannelCalendar
	getErr   error
}

func newMemoryChannelStore() *memoryChannelStore {
	return &memoryChannelStore{mappings: make(map[string]model.ChannelCalendar)}
}

func (s *memoryChannelStore) Get(_ context.Context, channelID string) (*model.ChannelCalendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	mapping, ok := s.mappings[channelID]
	if !ok {
		return nil, nil
	}
	return &mapping, nil
}

func (s *memoryChannelStore) Upsert(_ context.Context, mapping *model.ChannelCalendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[mapping.ChannelID] = *mapping
	return nil
}

type createdEvent struct {
	CalendarID string
	Event      calendar.Event
}

type fakeGateway struct {
	mu        sync.Mutex
	nextID    int
	events    map[string]createdEvent
	deleted   []string
	createErr error
	deleteErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{events: make(map[string]createdEvent)}
}

func (g *fakeGateway) CreateEvent(_ context.Context, calendarID string, event calendar.Event) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return "", g.createErr
	}
	g.nextID++
	id := fmt.Sprintf("evt-%d", g.nextID)
	g.events[id] = createdEvent{CalendarID: calendarID, Event: event}
	return id, nil
}

func (g *fakeGateway) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, eventID)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	if _, ok := g.events[eventID]; !ok {
		return &calendar.RemoteError{Op: "delete event", Kind: calendar.ErrEventNotFound, Err: errors.New("404")}
	}
	delete(g.events, eventID)
	return nil
}

func (g *fakeGateway) calls() (created int, deleted int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextID, len(g.deleted)
}

type postedMessage struct {
	ChannelID    string
	Confirmation Confirmation
}

type fakeMessenger struct {
	mu        sync.Mutex
	nextID    int
	posted    map[string]postedMessage
	deleted   []string
	notified  map[string][]string
	names     map[string]string
	postErr   error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		posted:   make(map[string]postedMessage),
		notified: make(map[string][]string),
		names:    map[string]string{"U1": "Ada Lovelace", "U2": "Grace Hopper"},
	}
}

func (m *fakeMessenger) Platform() string { return "Slack" }

func (m *fakeMessenger) Mention(userID string) string { return "<@" + userID + ">" }

func (m *fakeMessenger) PostConfirmation(_ context.Context, channelID string, confirmation Confirmation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return "", m.postErr
	}
	m.nextID++
	id := fmt.Sprintf("1718000000.%06d", m.nextID)
	m.posted[id] = postedMessage{ChannelID: channelID, Confirmation: confirmation}
	return id, nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, _ string, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	delete(m.posted, messageID)
	return nil
}

func (m *fakeMessenger) Notify(_ context.Context, userID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified[userID] = append(m.notified[userID], text)
	return nil
}

func (m *fakeMessenger) DisplayName(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.names[userID]
	if !ok {
		return "", errors.New("user_not_found")
	}
	return name, nil
}
