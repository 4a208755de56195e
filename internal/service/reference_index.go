package service

import (
	"iter"
	"regexp"
	"strings"

	"gscormer_backend/internal/model"
)

// Reference is one informal SCORM mention found inside a contenido field,
// e.g. "ES-SCR0001" or just "SCR0001". Language is empty for unlabeled
// mentions, which match every language variant of the code.
type Reference struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
}

// Key is the composite lookup key used by the course multimap.
func (r Reference) Key() string {
	return r.Language + "|" + r.Code
}

// The mention shape: an optional 2-3 letter language tag, an optional
// separator, then SCR and the numeric code. The digit group is open-ended
// so that over-long codes (SCR12345) can be rejected instead of truncated
// to their first four digits. \b keeps a 4+ letter prefix from donating
// its tail as a bogus language tag.
var referencePattern = regexp.MustCompile(`(?i)\b(?:([a-z]{2,3})[-_]?)?SCR([0-9]{4,})`)

// ReferenceIndex resolves informal in-text SCORM mentions to catalog rows.
// NormalizeLang, when set, is applied to language tags on both sides of
// every comparison; the zero value uppercases tags and compares verbatim.
type ReferenceIndex struct {
	NormalizeLang func(string) string
}

func (x ReferenceIndex) normalize(lang string) string {
	if x.NormalizeLang == nil {
		return strings.ToUpper(lang)
	}
	return x.NormalizeLang(lang)
}

// ExtractReferences scans text for SCORM mentions in order of appearance.
// The sequence is lazy, finite and restartable: each range over it starts
// a fresh scan, so iterating twice yields identical results.
func (x ReferenceIndex) ExtractReferences(text string) iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		for _, loc := range referencePattern.FindAllStringSubmatchIndex(text, -1) {
			var lang string
			if loc[2] >= 0 {
				lang = text[loc[2]:loc[3]]
			}
			digits := text[loc[4]:loc[5]]
			if len(digits) != 4 {
				// over-long numeric part, not a real code
				continue
			}
			ref := Reference{Code: "SCR" + digits}
			if lang != "" {
				ref.Language = x.normalize(lang)
			}
			if !yield(ref) {
				return
			}
		}
	}
}

// ExtractReferenceList is ExtractReferences collected into a slice.
func (x ReferenceIndex) ExtractReferenceList(text string) []Reference {
	var refs []Reference
	for ref := range x.ExtractReferences(text) {
		refs = append(refs, ref)
	}
	return refs
}

// BuildCodeIndex groups catalog rows by uppercased code. Rows without a
// code are excluded.
func (x ReferenceIndex) BuildCodeIndex(masters []*model.ScormMaster) map[string][]*model.ScormMaster {
	index := make(map[string][]*model.ScormMaster)
	for _, m := range masters {
		code := strings.ToUpper(strings.TrimSpace(m.Code))
		if code == "" {
			continue
		}
		index[code] = append(index[code], m)
	}
	return index
}

// ResolveReferences looks every reference up in the code index. A labeled
// reference keeps only rows of its language; an unlabeled one keeps every
// language variant. The result is deduplicated by row identity and keeps
// first-seen order.
func (x ReferenceIndex) ResolveReferences(refs []Reference, index map[string][]*model.ScormMaster) []*model.ScormMaster {
	var resolved []*model.ScormMaster
	seen := make(map[uint]struct{})
	for _, ref := range refs {
		for _, m := range index[ref.Code] {
			if ref.Language != "" && x.normalize(m.Language) != ref.Language {
				continue
			}
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			resolved = append(resolved, m)
		}
	}
	return resolved
}

// CourseIndex is the inverse join: code|language → referencing courses,
// with a code|wildcard bucket for unlabeled mentions. Lookups union the
// language bucket with the wildcard bucket.
type CourseIndex struct {
	buckets map[string][]*model.ScormCourse
	ref     ReferenceIndex
}

// BuildCourseIndex extracts every course's references once and files the
// course under each distinct (code, language) key it mentions.
func (x ReferenceIndex) BuildCourseIndex(courses []*model.ScormCourse) *CourseIndex {
	ci := &CourseIndex{
		buckets: make(map[string][]*model.ScormCourse),
		ref:     x,
	}
	for _, course := range courses {
		filed := make(map[string]struct{})
		for r := range x.ExtractReferences(course.Content) {
			key := r.Key()
			if _, done := filed[key]; done {
				continue
			}
			filed[key] = struct{}{}
			ci.buckets[key] = append(ci.buckets[key], course)
		}
	}
	return ci
}

// RelatedCourses returns every course that references the given catalog
// row: exact-language mentions plus unlabeled mentions of the same code.
// Order of first appearance is preserved and courses filed in both buckets
// come back once.
func (ci *CourseIndex) RelatedCourses(scorm *model.ScormMaster) []*model.ScormCourse {
	code := strings.ToUpper(strings.TrimSpace(scorm.Code))
	if code == "" {
		return nil
	}
	lang := ci.ref.normalize(scorm.Language)

	labeled := ci.buckets[lang+"|"+code]
	wildcard := ci.buckets["|"+code]

	result := make([]*model.ScormCourse, 0, len(labeled)+len(wildcard))
	seen := make(map[uint]struct{}, len(labeled)+len(wildcard))
	for _, bucket := range [2][]*model.ScormCourse{labeled, wildcard} {
		for _, course := range bucket {
			if _, dup := seen[course.ID]; dup {
				continue
			}
			seen[course.ID] = struct{}{}
			result = append(result, course)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
