package service

import (
	"errors"
	"fmt"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// ── 核心错误 → 业务错误 ──

// translateError 将排课核心的错误翻译为本层的业务错误。
// *scheduling.SchedulingError 原样透传，Handler 需要其中的冲突详情。
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var se *scheduling.SchedulingError
	switch {
	case errors.As(err, &se):
		return err
	case scheduling.IsNotFound(err, scheduling.EntityRoom):
		return fmt.Errorf("%w: %s", ErrRoomNotFound, err.Error())
	case scheduling.IsNotFound(err, scheduling.EntityCourse):
		return ErrCourseNotFound
	case scheduling.IsNotFound(err, scheduling.EntitySection):
		return ErrSectionNotFound
	case errors.Is(err, scheduling.ErrDuplicateCourseCode):
		return ErrCourseCodeDuplicate
	case errors.Is(err, scheduling.ErrInvalidCourse):
		return fmt.Errorf("%w: %s", ErrCourseInvalid, err.Error())
	case errors.Is(err, scheduling.ErrInvalidSection):
		return fmt.Errorf("%w: %s", ErrSectionInvalid, err.Error())
	case errors.Is(err, scheduling.ErrStaleVersion):
		return fmt.Errorf("%w: %s", ErrSectionStale, err.Error())
	case errors.Is(err, scheduling.ErrInvalidSlot):
		return fmt.Errorf("%w: %s", ErrSlotInvalid, err.Error())
	}
	return err
}

// ── 时段转换 ──

// toSlots 按输入顺序转换课表，星期编码非法时返回 ErrSlotInvalid
func toSlots(reqs []dto.SlotRequest) ([]scheduling.Slot, error) {
	slots := make([]scheduling.Slot, 0, len(reqs))
	for _, r := range reqs {
		day, err := scheduling.ParseWeekday(r.Weekday)
		if err != nil {
			return nil, translateError(err)
		}
		slots = append(slots, scheduling.Slot{
			RoomID:  r.RoomID,
			Weekday: day,
			Block:   scheduling.Block(r.Block),
		})
	}
	return slots, nil
}

func toSlotResponses(engine *scheduling.Engine, slots []scheduling.Slot) []dto.SlotResponse {
	out := make([]dto.SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, dto.SlotResponse{
			RoomID:     s.RoomID,
			RoomCode:   engine.Rooms.Code(s.RoomID),
			Weekday:    s.Weekday.String(),
			Block:      int(s.Block),
			BlockLabel: engine.Slots.ResolveBlockLabel(s.Block),
		})
	}
	return out
}

func toReservationResponses(engine *scheduling.Engine, list []scheduling.Reservation) []dto.ReservationResponse {
	out := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ReservationResponse{
			ID:           r.ID,
			RoomID:       r.Slot.RoomID,
			RoomCode:     engine.Rooms.Code(r.Slot.RoomID),
			Weekday:      r.Slot.Weekday.String(),
			WeekdayLabel: r.Slot.Weekday.Label(),
			Block:        int(r.Slot.Block),
			BlockLabel:   engine.Slots.ResolveBlockLabel(r.Slot.Block),
			SectionID:    r.SectionID,
			CourseID:     r.CourseID,
		})
	}
	return out
}

// toConflictResponse 冲突详情；Message 与 Error() 一致，可直接展示给协调员
func toConflictResponse(se *scheduling.SchedulingError) *dto.ConflictResponse {
	resp := &dto.ConflictResponse{
		Kind:     se.Kind.String(),
		RoomID:   se.Slot.RoomID,
		RoomCode: se.RoomCode,
		Weekday:  se.Slot.Weekday.String(),
		Block:    int(se.Slot.Block),
		Message:  se.Error(),
	}
	if se.Kind == scheduling.SlotOccupied {
		holder := se.HeldBy
		resp.HeldBy = &holder
	}
	return resp
}
