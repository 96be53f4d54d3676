package scheduling

import "sync"

// EventType 变更事件类型
type EventType string

const (
	EventSectionSaved   EventType = "section.saved"
	EventSectionDeleted EventType = "section.deleted"
	EventCourseSaved    EventType = "course.saved"
	EventCourseDeleted  EventType = "course.deleted"
)

// Event 每次成功变更后发出的通知，供持久化/缓存失效等下游使用
type Event struct {
	Type      EventType
	CourseID  int64
	SectionID int64   // 课程事件为 0
	RoomIDs   []int64 // 变更前后涉及的教室
	Version   uint64  // 发出方的版本号，单调递增
}

// Listener 事件回调。在锁外同步调用，实现方不得阻塞或回调写操作。
type Listener func(Event)

type notifier struct {
	mu        sync.RWMutex
	listeners []Listener
}

// Subscribe 注册事件监听
func (n *notifier) Subscribe(fn Listener) {
	n.mu.Lock()
	n.listeners = append(n.listeners, fn)
	n.mu.Unlock()
}

func (n *notifier) notify(events ...Event) {
	n.mu.RLock()
	listeners := n.listeners
	n.mu.RUnlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
