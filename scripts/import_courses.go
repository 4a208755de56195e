// Importador de la hoja de cursos.
//
// Carga un CSV exportado de la hoja de cursos en la tabla scorms_cursos.
// Pensado para el despliegue inicial o para recargar la hoja completa.
//
// Uso: go run scripts/import_courses.go cursos.csv

package main

import (
	"encoding/csv"
	"log"
	"os"

	"gscormer_backend/internal/config"
	"gscormer_backend/internal/model"
	"gscormer_backend/pkg/database"
	"gscormer_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("uso: go run scripts/import_courses.go <fichero.csv>")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("no se pudo leer la configuración: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("configuración inválida: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("conexión a base de datos fallida: %v", err)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("no se pudo abrir el CSV: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("CSV inválido: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("el CSV no tiene filas de datos")
	}

	// first row is the header; columns are matched by position against
	// the sheet export order
	imported := 0
	for _, rec := range records[1:] {
		course := courseFromRecord(rec)
		if err := db.Create(course).Error; err != nil {
			log.Printf("fila descartada (%s): %v", course.CourseName, err)
			continue
		}
		imported++
	}

	log.Printf("importadas %d de %d filas", imported, len(records)-1)
}

func courseFromRecord(rec []string) *model.ScormCourse {
	get := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	return &model.ScormCourse{
		Category:       get(0),
		Subcategory:    get(1),
		Typology:       get(2),
		Subject:        get(3),
		PlanMember:     get(4) == "SI",
		PlanCode:       get(5),
		PlanName:       get(6),
		PlanURL:        get(7),
		Order:          get(8),
		Branches:       get(9),
		Enrollment:     get(10),
		IndividualCode: get(11),
		CourseCode:     get(12),
		CourseName:     get(13),
		Instructor:     get(14),
		CourseEnroll:   get(15),
		Observations:   get(16),
		Description:    get(17),
		CertTime:       get(18),
		SheetURL:       get(19),
		CourseURL:      get(20),
		Content:        get(21),
		TestPassed:     get(22) == "SI",
		Exists:         get(23),
		EnrollLink:     get(24),
		Status:         model.ParseStatus(get(25)),
	}
}
