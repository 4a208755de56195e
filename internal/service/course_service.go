package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gscormer_backend/internal/model"
	"gscormer_backend/internal/repository"
	"gscormer_backend/internal/util"
	"gscormer_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const courseListCacheKey = "gscormer:courses:list"

// CourseView is a course row plus its derived columns: the matched master
// metadata for every reference the content text mentions. The derived
// column is what filters and the table see, never what gets stored.
type CourseView struct {
	*model.ScormCourse
	MatchedScorms string `json:"scormsEncontrados"`
}

// CourseService serves the course sheet: cached listing, the draft
// content save, and the reference projections against the master catalog.
type CourseService struct {
	Repo   *repository.CourseRepository
	Scorms *ScormService
	Ref    ReferenceIndex
	Redis  *redis.Client
}

func NewCourseService(repo *repository.CourseRepository, scorms *ScormService, ref ReferenceIndex, rdb *redis.Client) *CourseService {
	return &CourseService{Repo: repo, Scorms: scorms, Ref: ref, Redis: rdb}
}

// List returns every course row ordered by id, cached alongside the
// catalog listing and invalidated with it.
func (s *CourseService) List() ([]*model.ScormCourse, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, courseListCacheKey).Result(); err == nil {
			var rows []*model.ScormCourse
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.Repo.FindAll()
	if err != nil {
		return nil, util.PersistenceError("cargar cursos", err)
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(rows); err == nil {
			if err := s.Redis.Set(ctx, courseListCacheKey, payload, listCacheTTL).Err(); err != nil {
				logger.Log.Warn("course list cache write failed", zap.Error(err))
			}
		}
	}

	return rows, nil
}

// ListView builds the view rows: each course annotated with the master
// rows its content references, resolved language-first.
func (s *CourseService) ListView() ([]*CourseView, error) {
	courses, err := s.List()
	if err != nil {
		return nil, err
	}
	masters, err := s.Scorms.List()
	if err != nil {
		return nil, err
	}

	index := s.Ref.BuildCodeIndex(masters)
	views := make([]*CourseView, 0, len(courses))
	for _, course := range courses {
		matched := s.Ref.ResolveReferences(s.Ref.ExtractReferenceList(course.Content), index)
		views = append(views, &CourseView{
			ScormCourse:   course,
			MatchedScorms: formatMatches(matched),
		})
	}
	return views, nil
}

// ListViewFiltered applies a view's filter set on top of ListView. The
// derived column participates in matching like any stored one.
func (s *CourseService) ListViewFiltered(filter *FilterEngine) ([]*CourseView, error) {
	views, err := s.ListView()
	if err != nil {
		return nil, err
	}
	return FilterRows(filter, views, CourseFieldValue), nil
}

// FilteredCourses returns the visible course subset for a view's filter
// set, unwrapped for the grouping engines: grouping runs on what the
// filters let through, never on the raw collection.
func (s *CourseService) FilteredCourses(filter *FilterEngine) ([]*model.ScormCourse, error) {
	views, err := s.ListViewFiltered(filter)
	if err != nil {
		return nil, err
	}
	return courseRows(views), nil
}

// courseRows unwraps view rows for the grouping engines.
func courseRows(views []*CourseView) []*model.ScormCourse {
	courses := make([]*model.ScormCourse, 0, len(views))
	for _, v := range views {
		courses = append(courses, v.ScormCourse)
	}
	return courses
}

// SaveContent persists an edited content cell and drops the cached lists
// so derived columns get recomputed.
func (s *CourseService) SaveContent(id uint, content string) (*model.ScormCourse, error) {
	if _, err := s.Repo.FindByID(id); err != nil {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}
	if err := s.Repo.UpdateContent(id, content); err != nil {
		return nil, util.PersistenceError("guardar contenido", err)
	}
	s.Scorms.InvalidateCache()
	return s.Repo.FindByID(id)
}

// RelatedCourses lists the courses whose content references the given
// master row, honouring the language scoping rules.
func (s *CourseService) RelatedCourses(scormID uint) ([]*model.ScormCourse, error) {
	master, err := s.Scorms.Repo.FindByID(scormID)
	if err != nil {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}
	courses, err := s.List()
	if err != nil {
		return nil, err
	}
	index := s.Ref.BuildCourseIndex(courses)
	related := index.RelatedCourses(master)
	if related == nil {
		related = []*model.ScormCourse{}
	}
	return related, nil
}

func formatMatches(matched []*model.ScormMaster) string {
	if len(matched) == 0 {
		return ""
	}
	parts := make([]string, 0, len(matched))
	for _, m := range matched {
		if m.Name != "" {
			parts = append(parts, fmt.Sprintf("%s %s", m.LanguageCode(), m.Name))
		} else {
			parts = append(parts, m.LanguageCode())
		}
	}
	return strings.Join(parts, "; ")
}

// CourseFieldValue derives a view row's display string per column key.
func CourseFieldValue(v *CourseView, field string) string {
	switch field {
	case "categoria":
		return v.Category
	case "subcategoria":
		return v.Subcategory
	case "tipologia":
		return v.Typology
	case "materia":
		return v.Subject
	case "pa_codigo":
		return v.PlanCode
	case "pa_nombre":
		return v.PlanName
	case "ci_codigo":
		return v.IndividualCode
	case "curso_codigo":
		return v.CourseCode
	case "curso_nombre":
		return v.CourseName
	case "curso_instructor":
		return v.Instructor
	case "contenido":
		return v.Content
	case "scorms_encontrados":
		return v.MatchedScorms
	case "estado":
		return v.Status.Display()
	case "observaciones":
		return v.Observations
	default:
		return ""
	}
}
