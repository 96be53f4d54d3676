package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
)

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[int64]*model.Room
	err   error
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[int64]*model.Room)}
}

func (m *mockRoomRepo) List(_ context.Context, includeInactive bool) ([]model.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Room
	for _, r := range m.rooms {
		if r.IsActive || includeInactive {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result, nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses []model.Course
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	return m.courses, nil
}

// ── Mock SectionRepository ──

type mockSectionRepo struct {
	sections []model.Section
}

func (m *mockSectionRepo) List(_ context.Context) ([]model.Section, error) {
	return m.sections, nil
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	reservations []model.Reservation
}

func (m *mockReservationRepo) List(_ context.Context) ([]model.Reservation, error) {
	return m.reservations, nil
}

func (m *mockReservationRepo) ListByRoom(_ context.Context, roomID int64) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.RoomID == roomID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]model.Teacher
	err      error
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]model.Teacher)}
}

func (m *mockTeacherRepo) ListByIDs(_ context.Context, ids []string) ([]model.Teacher, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Teacher
	for _, id := range ids {
		if t, ok := m.teachers[id]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

// ── Mock ScheduleStore ──

type mockScheduleStore struct {
	mu      sync.Mutex
	state   model.ScheduleSyncState
	applied []*repository.ChangeSet
	err     error
}

func newMockScheduleStore() *mockScheduleStore {
	return &mockScheduleStore{state: model.ScheduleSyncState{Singleton: true}}
}

func (m *mockScheduleStore) GetSyncState(_ context.Context) (*model.ScheduleSyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state
	return &st, nil
}

func (m *mockScheduleStore) Apply(_ context.Context, cs *repository.ChangeSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.applied = append(m.applied, cs)
	m.state.Revision = cs.Revision
	return nil
}

func (m *mockScheduleStore) last() *repository.ChangeSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.applied) == 0 {
		return nil
	}
	return m.applied[len(m.applied)-1]
}

// ── Mock ByteCache ──

type mockCache struct {
	data map[string][]byte
	sets int
	err  error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) SetBytes(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sets++
	m.data[key] = value
	return nil
}

// ── Mock EventPublisher ──

type mockPublisher struct {
	mu       sync.Mutex
	messages []interface{}
	keys     []string
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, routingKey string, v interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, routingKey)
	m.messages = append(m.messages, v)
	return nil
}

var errMockDB = errors.New("mock: 数据库不可用")
