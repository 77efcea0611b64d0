package results

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps results in process; used when no database is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	byGame map[string]*Record
	byUser map[string][]string // user id -> game ids
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byGame: make(map[string]*Record),
		byUser: make(map[string][]string),
	}
}

// SaveResult upserts by game id.
func (m *MemoryRepository) SaveResult(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	cp := *rec
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byGame[cp.GameID]; !exists {
		m.byUser[cp.PlayerAID] = append(m.byUser[cp.PlayerAID], cp.GameID)
		m.byUser[cp.PlayerBID] = append(m.byUser[cp.PlayerBID], cp.GameID)
	}
	m.byGame[cp.GameID] = &cp
	return nil
}

func (m *MemoryRepository) Recent(ctx context.Context, userID string, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.recordsOf(userID)
	// EndedAt desc, game id as a stable fallback
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].GameID > items[j].GameID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *MemoryRepository) Profile(ctx context.Context, userID string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.recordsOf(userID)
	if len(items) == 0 {
		return nil, nil
	}
	p := &Profile{UserID: userID}
	for _, r := range items {
		switch r.WinnerID {
		case "":
			p.Draws++
		case userID:
			p.Wins++
		default:
			p.Losses++
		}
		if !r.EndedAt.Before(p.LastPlayedAt) {
			p.LastPlayedAt = r.EndedAt
			p.Name = r.nameOf(userID)
		}
	}
	return p, nil
}

func (m *MemoryRepository) recordsOf(userID string) []*Record {
	ids := m.byUser[userID]
	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := m.byGame[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}
