package scheduling

import (
	"errors"
	"testing"
)

func TestRoomRegistry_GetRoom(t *testing.T) {
	r := NewRoomRegistry([]Room{{ID: 2, Code: "C301", Capacity: 24, Type: "kitchen"}})

	room, err := r.GetRoom(2)
	if err != nil {
		t.Fatalf("GetRoom 应成功: %v", err)
	}
	if room.Code != "C301" {
		t.Errorf("期望 Code=C301，实际=%s", room.Code)
	}

	_, err = r.GetRoom(99)
	if !errors.Is(err, ErrNotFound) || !IsNotFound(err, EntityRoom) {
		t.Errorf("期望教室 NotFound，实际: %v", err)
	}
}

func TestRoomRegistry_ListRooms_SortedByID(t *testing.T) {
	r := NewRoomRegistry([]Room{{ID: 3, Code: "C"}, {ID: 1, Code: "A"}, {ID: 2, Code: "B"}})

	rooms := r.ListRooms()
	if len(rooms) != 3 {
		t.Fatalf("期望 3 间教室，实际=%d", len(rooms))
	}
	for i, want := range []int64{1, 2, 3} {
		if rooms[i].ID != want {
			t.Errorf("第 %d 项期望 ID=%d，实际=%d", i, want, rooms[i].ID)
		}
	}
}

func TestRoomRegistry_Reseed(t *testing.T) {
	r := NewRoomRegistry([]Room{{ID: 1, Code: "A"}})
	r.Reseed([]Room{{ID: 5, Code: "E"}})

	if _, err := r.GetRoom(1); err == nil {
		t.Error("重新播种后旧教室应不存在")
	}
	if r.Code(5) != "E" {
		t.Errorf("期望 Code=E，实际=%s", r.Code(5))
	}
	if r.Code(7) != "#7" {
		t.Errorf("未知教室期望 #7，实际=%s", r.Code(7))
	}
}

func TestRoomRegistry_GenerationAdvancesOnReseed(t *testing.T) {
	r := NewRoomRegistry(nil)
	before := r.Generation()

	r.Reseed([]Room{{ID: 1, Code: "A"}})
	if r.Generation() != before+1 {
		t.Errorf("期望代数 %d，实际=%d", before+1, r.Generation())
	}

	r.Reseed([]Room{{ID: 1, Code: "A"}})
	if r.Generation() != before+1 {
		t.Errorf("名录未变化时代数不应增加，实际=%d", r.Generation())
	}

	r.Reseed([]Room{{ID: 1, Code: "A-2"}})
	if r.Generation() != before+2 {
		t.Errorf("编码变化后期望代数 %d，实际=%d", before+2, r.Generation())
	}
}
