package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound      = errors.New("课程不存在")
	ErrCourseCodeDuplicate = errors.New("课程代码已存在")
	ErrCourseInvalid       = errors.New("课程信息不合法")
)

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	// Delete 删除课程及其全部班级，班级的预约一并释放
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	catalog   *scheduling.CourseCatalog
	presenter *sectionPresenter
	logger    *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, engine *scheduling.Engine, logger *zap.Logger) CourseService {
	return &courseService{
		catalog:   engine.Courses,
		presenter: &sectionPresenter{repo: repo, engine: engine, logger: logger},
		logger:    logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.catalog.AddCourse(ctx, scheduling.CourseInput{Name: req.Name, Code: req.Code})
	if err != nil {
		return nil, translateError(err)
	}

	s.logger.Info("课程已创建", zap.Int64("course_id", course.ID), zap.String("code", course.Code))
	return s.toCourseResponse(ctx, course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.catalog.GetCourse(id)
	if err != nil {
		return nil, translateError(err)
	}
	return s.toCourseResponse(ctx, course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses := s.catalog.ListCourses()

	// 全部班级一次性组装，教师目录只查一次
	var all []scheduling.Section
	for _, c := range courses {
		all = append(all, c.Sections...)
	}
	sections := s.presenter.present(ctx, all)

	result := make([]dto.CourseResponse, 0, len(courses))
	offset := 0
	for _, c := range courses {
		n := len(c.Sections)
		result = append(result, dto.CourseResponse{
			ID:       c.ID,
			Name:     c.Name,
			Code:     c.Code,
			Version:  c.Version,
			Sections: sections[offset : offset+n : offset+n],
		})
		offset += n
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	current, err := s.catalog.GetCourse(id)
	if err != nil {
		return nil, translateError(err)
	}

	in := scheduling.CourseInput{Name: current.Name, Code: current.Code}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Code != nil {
		in.Code = *req.Code
	}

	course, err := s.catalog.UpdateCourse(ctx, id, in)
	if err != nil {
		return nil, translateError(err)
	}
	return s.toCourseResponse(ctx, course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id int64) error {
	if err := s.catalog.RemoveCourse(ctx, id); err != nil {
		return translateError(err)
	}

	s.logger.Info("课程已删除", zap.Int64("course_id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *courseService) toCourseResponse(ctx context.Context, c scheduling.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:       c.ID,
		Name:     c.Name,
		Code:     c.Code,
		Version:  c.Version,
		Sections: s.presenter.present(ctx, c.Sections),
	}
}
