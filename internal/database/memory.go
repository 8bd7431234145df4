package repository

import (
	"SchoolDesk/entity"
	"context"
	"sync"
	"time"
)

// Memory keeps sessions in process when MongoDB is disabled. Sessions are
// lost on restart.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]entity.Session),
	}
}

func (m *Memory) SaveSession(_ context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*entity.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (m *Memory) TouchSession(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[id]; ok {
		session.LastSeen = at
		m.sessions[id] = session
	}
	return nil
}

func (m *Memory) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *Memory) DeleteSessionsBefore(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, session := range m.sessions {
		if session.LastSeen.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
