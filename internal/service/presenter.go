package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// sectionPresenter 组装班级响应，教师姓名来自教师目录
type sectionPresenter struct {
	repo   *repository.Repository
	engine *scheduling.Engine
	logger *zap.Logger
}

// present 批量转换；教师目录查询失败只记日志，不影响主流程
func (p *sectionPresenter) present(ctx context.Context, sections []scheduling.Section) []dto.SectionResponse {
	names := p.teacherNames(ctx, sections)

	out := make([]dto.SectionResponse, 0, len(sections))
	for _, sec := range sections {
		resp := dto.SectionResponse{
			ID:       sec.ID,
			CourseID: sec.CourseID,
			Name:     sec.Name,
			Active:   sec.Active,
			Version:  sec.Version,
			Schedule: toSlotResponses(p.engine, sec.Schedule),
		}
		if sec.TeacherID != "" {
			teacherID := sec.TeacherID
			resp.TeacherID = &teacherID
			if name, ok := names[teacherID]; ok {
				resp.Teacher = &dto.TeacherBrief{ID: teacherID, DisplayName: name}
			}
		}
		out = append(out, resp)
	}
	return out
}

func (p *sectionPresenter) presentOne(ctx context.Context, sec scheduling.Section) *dto.SectionResponse {
	return &p.present(ctx, []scheduling.Section{sec})[0]
}

func (p *sectionPresenter) teacherNames(ctx context.Context, sections []scheduling.Section) map[string]string {
	seen := make(map[string]struct{})
	var ids []string
	for _, sec := range sections {
		if sec.TeacherID == "" {
			continue
		}
		if _, ok := seen[sec.TeacherID]; ok {
			continue
		}
		seen[sec.TeacherID] = struct{}{}
		ids = append(ids, sec.TeacherID)
	}

	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names
	}

	teachers, err := p.repo.Teacher.ListByIDs(ctx, ids)
	if err != nil {
		p.logger.Warn("查询教师目录失败", zap.Strings("teacher_ids", ids), zap.Error(err))
		return names
	}
	for _, t := range teachers {
		names[t.TeacherID] = t.DisplayName
	}
	return names
}
