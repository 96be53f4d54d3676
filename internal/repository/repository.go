package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Room        RoomRepository
	Course      CourseRepository
	Section     SectionRepository
	Reservation ReservationRepository
	Teacher     TeacherRepository
	Schedule    ScheduleStore
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Room:        NewRoomRepo(db),
		Course:      NewCourseRepo(db),
		Section:     NewSectionRepo(db),
		Reservation: NewReservationRepo(db),
		Teacher:     NewTeacherRepo(db),
		Schedule:    NewScheduleStore(db),
	}
}
