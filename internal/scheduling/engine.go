package scheduling

// Engine 排课核心组件的集合，启动时一次性构造并显式注入各服务
type Engine struct {
	Slots     *TimeSlotCatalog
	Rooms     *RoomRegistry
	Ledger    *Ledger
	Scheduler *SectionScheduler
	Courses   *CourseCatalog
}

// NewEngine 按依赖顺序构造核心组件；教室名录为空，需随后 Reseed
func NewEngine(includeSunday bool, opts ...LedgerOption) *Engine {
	slots := NewTimeSlotCatalog(includeSunday)
	rooms := NewRoomRegistry(nil)
	ledger := NewLedger(opts...)
	scheduler := NewSectionScheduler(ledger, rooms, slots)

	return &Engine{
		Slots:     slots,
		Rooms:     rooms,
		Ledger:    ledger,
		Scheduler: scheduler,
		Courses:   NewCourseCatalog(scheduler),
	}
}
