package service

import (
	"sort"
	"strings"

	"gscormer_backend/internal/model"
)

// NoScormBucket is the top-level bucket for courses whose contenido holds
// no SCORM reference at all.
const NoScormBucket = "(sin SCORM)"

// noPlanMarker flags bookkeeping plan rows that must not surface as real
// learning plans.
const noPlanMarker = "sin pa"

// CourseGroup is one group of course rows with the representative display
// fields of its first member.
type CourseGroup struct {
	Key     string               `json:"key"`
	Name    string               `json:"name"`
	Subject string               `json:"subject,omitempty"`
	Courses []*model.ScormCourse `json:"courses"`
}

// PlanGroup is one learning plan with its member courses.
type PlanGroup struct {
	Key     string               `json:"key"`
	Name    string               `json:"name"`
	URL     string               `json:"url,omitempty"`
	Courses []*model.ScormCourse `json:"courses"`
}

// ScormGroup is one SCORM-code bucket with its member courses sub-grouped
// by individual course identity.
type ScormGroup struct {
	Code   string        `json:"code"`
	Groups []CourseGroup `json:"groups"`
}

// GroupingEngine derives the hierarchical course views from the flat
// collection. Cross-entity grouping goes through the reference index.
type GroupingEngine struct {
	Ref ReferenceIndex
}

// ByIndividualCourse groups rows by their derived individual identity
// (individual code, course code, course name, synthetic fallback).
func (g GroupingEngine) ByIndividualCourse(courses []*model.ScormCourse) []CourseGroup {
	byKey := make(map[string]*CourseGroup)
	for _, course := range courses {
		key := course.IndividualIdentity()
		group, ok := byKey[key]
		if !ok {
			group = &CourseGroup{
				Key:     key,
				Name:    course.CourseName,
				Subject: course.Subject,
			}
			byKey[key] = group
		}
		group.Courses = append(group.Courses, course)
	}
	return sortCourseGroups(byKey)
}

// ByLearningPlan groups plan members by plan code (falling back to plan
// name) and drops the bookkeeping "sin PA" buckets.
func (g GroupingEngine) ByLearningPlan(courses []*model.ScormCourse) []PlanGroup {
	byKey := make(map[string]*PlanGroup)
	for _, course := range courses {
		if !course.PlanMember {
			continue
		}
		key := course.PlanCode
		if key == "" {
			key = course.PlanName
		}
		if key == "" {
			continue
		}
		name := course.PlanName
		if name == "" {
			name = key
		}
		if strings.Contains(strings.ToLower(name), noPlanMarker) {
			continue
		}
		group, ok := byKey[key]
		if !ok {
			group = &PlanGroup{Key: key, Name: name, URL: course.PlanURL}
			byKey[key] = group
		}
		group.Courses = append(group.Courses, course)
	}

	groups := make([]PlanGroup, 0, len(byKey))
	for _, group := range byKey {
		sortCourses(group.Courses)
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return naturalLess(groups[i].Key, groups[j].Key)
	})
	return groups
}

// ByScorm buckets the (already filtered) course rows by every distinct
// SCORM code their contenido references; a course with several codes
// appears under each of them and a course with none lands in the sentinel
// bucket. Each bucket is sub-grouped by individual course identity.
func (g GroupingEngine) ByScorm(courses []*model.ScormCourse) []ScormGroup {
	byCode := make(map[string][]*model.ScormCourse)
	for _, course := range courses {
		codes := make(map[string]struct{})
		for ref := range g.Ref.ExtractReferences(course.Content) {
			codes[ref.Code] = struct{}{}
		}
		if len(codes) == 0 {
			byCode[NoScormBucket] = append(byCode[NoScormBucket], course)
			continue
		}
		for code := range codes {
			byCode[code] = append(byCode[code], course)
		}
	}

	groups := make([]ScormGroup, 0, len(byCode))
	for code, members := range byCode {
		nested := g.ByIndividualCourse(members)
		groups = append(groups, ScormGroup{Code: code, Groups: nested})
	}
	sort.Slice(groups, func(i, j int) bool {
		// sentinel bucket sorts last
		if groups[i].Code == NoScormBucket {
			return false
		}
		if groups[j].Code == NoScormBucket {
			return true
		}
		return naturalLess(groups[i].Code, groups[j].Code)
	})
	return groups
}

func sortCourseGroups(byKey map[string]*CourseGroup) []CourseGroup {
	groups := make([]CourseGroup, 0, len(byKey))
	for _, group := range byKey {
		sortCourses(group.Courses)
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return naturalLess(groups[i].Key, groups[j].Key)
	})
	return groups
}

func sortCourses(courses []*model.ScormCourse) {
	sort.SliceStable(courses, func(i, j int) bool {
		a, b := courses[i], courses[j]
		if a.CourseName != b.CourseName {
			return naturalLess(a.CourseName, b.CourseName)
		}
		return a.ID < b.ID
	})
}

// naturalLess is a case-insensitive comparison that keeps display order
// stable regardless of the casing the rows were loaded with.
func naturalLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
