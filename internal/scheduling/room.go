package scheduling

import (
	"maps"
	"sort"
	"strconv"
	"sync"
)

// Room 可预订教室。容量与类型仅供展示，排他性只看 ID。
type Room struct {
	ID       int64
	Code     string
	Capacity int
	Type     string
}

// RoomRegistry 教室名录，启动时由数据源播种
type RoomRegistry struct {
	mu         sync.RWMutex
	rooms      map[int64]Room
	generation uint64 // 名录内容变化时加一
}

// NewRoomRegistry 以初始教室列表创建名录
func NewRoomRegistry(rooms []Room) *RoomRegistry {
	r := &RoomRegistry{}
	r.Reseed(rooms)
	return r
}

// Reseed 整体替换教室列表（启动播种 / 定时从数据源刷新）
func (r *RoomRegistry) Reseed(rooms []Room) {
	next := make(map[int64]Room, len(rooms))
	for _, room := range rooms {
		next[room.ID] = room
	}

	r.mu.Lock()
	if !maps.Equal(r.rooms, next) {
		r.generation++
	}
	r.rooms = next
	r.mu.Unlock()
}

// Generation 名录代数，教室编码等展示信息变化时用于使派生缓存失效
func (r *RoomRegistry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// GetRoom 按 ID 查询教室
func (r *RoomRegistry) GetRoom(id int64) (Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return Room{}, &NotFoundError{Entity: EntityRoom, ID: id}
	}
	return room, nil
}

// ListRooms 按 ID 升序返回全部教室
func (r *RoomRegistry) ListRooms() []Room {
	r.mu.RLock()
	out := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Code 返回教室编码，未知教室返回 "#<id>"
func (r *RoomRegistry) Code(id int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if room, ok := r.rooms[id]; ok && room.Code != "" {
		return room.Code
	}
	return "#" + strconv.FormatInt(id, 10)
}
