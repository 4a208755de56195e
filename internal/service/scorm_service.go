package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"gscormer_backend/internal/config"
	"gscormer_backend/internal/model"
	"gscormer_backend/internal/repository"
	"gscormer_backend/internal/util"
	"gscormer_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	scormListCacheKey = "gscormer:scorms:list"
	listCacheTTL      = 5 * time.Minute
)

// FieldDescriptor drives both the detail view and the save payload: only
// fields flagged editable are accepted on a row save. Keeping this as a
// static table avoids reflecting over row keys at runtime.
type FieldDescriptor struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Editable bool   `json:"editable"`
}

// ScormFields mirrors the catalog table's column layout.
var ScormFields = []FieldDescriptor{
	{Name: "id", Label: "ID", Editable: false},
	{Name: "created_at", Label: "Creado", Editable: false},
	{Name: "scorm_code", Label: "Código", Editable: true},
	{Name: "scorm_idioma", Label: "Idioma", Editable: true},
	{Name: "scorm_name", Label: "Nombre", Editable: true},
	{Name: "scorm_responsable", Label: "Responsable", Editable: true},
	{Name: "scorm_tipo", Label: "Tipo", Editable: true},
	{Name: "scorm_categoria", Label: "Categoría", Editable: true},
	{Name: "scorm_subcategoria", Label: "Subcategoría", Editable: true},
	{Name: "scorm_url", Label: "URL", Editable: true},
	{Name: "scorm_etiquetas", Label: "Etiquetas", Editable: true},
}

var editableScormFields = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range ScormFields {
		if f.Editable {
			set[f.Name] = struct{}{}
		}
	}
	return set
}()

// ScormService owns the catalog: full-scan listing (cached), creation with
// the duplicate-code guard, detail saves restricted to the descriptor
// table, and translation cloning.
type ScormService struct {
	Repo    *repository.ScormRepository
	Updates *repository.UpdateRepository
	Redis   *redis.Client

	mu        sync.RWMutex
	languages config.LanguagesConfig
}

func NewScormService(repo *repository.ScormRepository, updates *repository.UpdateRepository, rdb *redis.Client, languages config.LanguagesConfig) *ScormService {
	return &ScormService{Repo: repo, Updates: updates, Redis: rdb, languages: languages}
}

// SetLanguages swaps the language table, used by the config hot reload.
func (s *ScormService) SetLanguages(languages config.LanguagesConfig) {
	s.mu.Lock()
	s.languages = languages
	s.mu.Unlock()
}

// NormalizeLanguage applies the configured language table.
func (s *ScormService) NormalizeLanguage(raw string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.languages.Normalize(raw)
}

// List returns the full catalog ordered by id, served from the Redis
// cache when fresh. Cache failures fall back to the store silently.
func (s *ScormService) List() ([]*model.ScormMaster, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, scormListCacheKey).Result(); err == nil {
			var rows []*model.ScormMaster
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.Repo.FindAll()
	if err != nil {
		return nil, util.PersistenceError("cargar catálogo", err)
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(rows); err == nil {
			if err := s.Redis.Set(ctx, scormListCacheKey, payload, listCacheTTL).Err(); err != nil {
				logger.Log.Warn("scorm list cache write failed", zap.Error(err))
			}
		}
	}

	return rows, nil
}

// ListFiltered applies a view's filter set on top of List.
func (s *ScormService) ListFiltered(filter *FilterEngine) ([]*model.ScormMaster, error) {
	rows, err := s.List()
	if err != nil {
		return nil, err
	}
	return FilterRows(filter, rows, ScormFieldValue), nil
}

// InvalidateCache drops the cached listing after any catalog mutation.
func (s *ScormService) InvalidateCache() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), scormListCacheKey, courseListCacheKey).Err(); err != nil {
		logger.Log.Warn("cache invalidation failed", zap.Error(err))
	}
}

type CreateScormRequest struct {
	Code        string `json:"scormCode" binding:"required"`
	Language    string `json:"scormIdioma"`
	Name        string `json:"scormName"`
	Responsible string `json:"scormResponsable"`
	Type        string `json:"scormTipo"`
	Category    string `json:"scormCategoria"`
	Subcategory string `json:"scormSubcategoria"`
	URL         string `json:"scormUrl"`
	Tags        string `json:"scormEtiquetas"`
}

// Create inserts a new master row. The duplicate check runs against the
// store, not the loaded subset, so it stays correct under partial loads;
// the unique (language, code) index backs it up against races.
func (s *ScormService) Create(req CreateScormRequest) (*model.ScormMaster, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, util.ValidationError(util.ErrMissingCode)
	}

	count, err := s.Repo.CountByCode(code)
	if err != nil {
		return nil, util.PersistenceError("comprobar duplicados", err)
	}
	if count > 0 {
		return nil, util.ValidationError(util.ErrDuplicateCode)
	}

	row := &model.ScormMaster{
		Code:        code,
		Language:    s.NormalizeLanguage(req.Language),
		Name:        strings.TrimSpace(req.Name),
		Responsible: req.Responsible,
		Type:        req.Type,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		URL:         req.URL,
		Tags:        req.Tags,
		Status:      model.StatusInProgress,
	}
	if err := s.Repo.Create(row); err != nil {
		return nil, util.PersistenceError("crear SCORM", err)
	}
	s.InvalidateCache()
	return row, nil
}

// UpdateRow saves a detail edit. Unknown and read-only field names are
// dropped, not errors: the table drives what is writable.
func (s *ScormService) UpdateRow(id uint, values map[string]string) (*model.ScormMaster, error) {
	if _, err := s.Repo.FindByID(id); err != nil {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}

	fields := make(map[string]interface{})
	for name, value := range values {
		if _, ok := editableScormFields[name]; !ok {
			continue
		}
		if name == "scorm_idioma" {
			value = s.NormalizeLanguage(value)
		}
		if name == "scorm_code" {
			value = strings.ToUpper(strings.TrimSpace(value))
		}
		fields[name] = value
	}
	if len(fields) == 0 {
		return nil, util.ValidationError(util.ErrValidation)
	}

	if err := s.Repo.UpdateFields(id, fields); err != nil {
		return nil, util.PersistenceError("guardar fila", err)
	}
	s.InvalidateCache()
	return s.Repo.FindByID(id)
}

// Translate clones a source row into a new language variant. The clone
// starts back at the beginning of the pipeline.
func (s *ScormService) Translate(sourceID uint, language string) (*model.ScormMaster, error) {
	source, err := s.Repo.FindByID(sourceID)
	if err != nil {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}

	lang := s.NormalizeLanguage(language)
	if lang == "" {
		return nil, util.ValidationError(util.ErrInvalidTransition)
	}

	count, err := s.Repo.CountByLanguageCode(lang, source.Code)
	if err != nil {
		return nil, util.PersistenceError("comprobar duplicados", err)
	}
	if count > 0 {
		return nil, util.ValidationError(util.ErrDuplicateLanguage)
	}

	clone := &model.ScormMaster{
		Code:        source.Code,
		Language:    lang,
		Name:        source.Name,
		Responsible: source.Responsible,
		Type:        source.Type,
		Category:    source.Category,
		Subcategory: source.Subcategory,
		Tags:        source.Tags,
		Status:      model.StatusInProgress,
	}
	if err := s.Repo.Create(clone); err != nil {
		return nil, util.PersistenceError("crear traducción", err)
	}
	s.InvalidateCache()
	return clone, nil
}

// UpdatesFor lists the append-only log of one row's code.
func (s *ScormService) UpdatesFor(id uint) ([]*model.ScormUpdate, error) {
	row, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}
	if row.Code == "" {
		return nil, util.ValidationError(util.ErrMissingCode)
	}
	entries, err := s.Updates.FindByCode(row.Code)
	if err != nil {
		return nil, util.PersistenceError("cargar actualizaciones", err)
	}
	return entries, nil
}

// ScormFieldValue derives a row's display string per column key, the same
// derivation the table renders; filters match against it.
func ScormFieldValue(m *model.ScormMaster, field string) string {
	switch field {
	case "scorm_code":
		return m.Code
	case "scorm_idioma":
		return m.Language
	case "idioma_codigo":
		return m.LanguageCode()
	case "scorm_name":
		return m.Name
	case "scorm_responsable":
		return m.Responsible
	case "scorm_tipo":
		return m.Type
	case "scorm_categoria":
		return m.Category
	case "scorm_subcategoria":
		return m.Subcategory
	case "scorm_url":
		return m.URL
	case "scorm_estado":
		return m.Status.Display()
	case "scorm_etiquetas":
		return m.Tags
	default:
		return ""
	}
}
