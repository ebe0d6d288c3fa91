package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
)

// CatalogImportService seeds the question catalog from the exported
// catalog files: a question list plus an optional image-path-to-tags map.
type CatalogImportService interface {
	ImportFiles(ctx context.Context, catalogPath, tagsPath string) (int, error)
	Import(ctx context.Context, catalog io.Reader, tags io.Reader) (int, error)
}

type catalogImportService struct {
	questions repository.QuestionRepository
}

// NewCatalogImportService creates a new CatalogImportService.
func NewCatalogImportService(questions repository.QuestionRepository) CatalogImportService {
	return &catalogImportService{questions: questions}
}

// catalogEntry is one row of the exported question list. Year is the full
// four-digit exam year; the composite identifier carries it modulo 100.
type catalogEntry struct {
	Year     int    `json:"year"`
	Paper    int    `json:"paper"`
	Question int    `json:"question"`
	File     string `json:"file"`
}

func (s *catalogImportService) ImportFiles(ctx context.Context, catalogPath, tagsPath string) (int, error) {
	log := logger.FromContext(ctx)

	catalog, err := os.Open(catalogPath)
	if err != nil {
		return 0, fmt.Errorf("open catalog: %w", err)
	}
	defer catalog.Close()

	var tags io.Reader
	if tagsPath != "" {
		f, err := os.Open(tagsPath)
		if err != nil {
			// Tags are optional; an untagged catalog still imports.
			log.Warn("tags file not readable, importing without tags: %v", err)
		} else {
			defer f.Close()
			tags = f
		}
	}

	return s.Import(ctx, catalog, tags)
}

func (s *catalogImportService) Import(ctx context.Context, catalog io.Reader, tags io.Reader) (int, error) {
	log := logger.FromContext(ctx)

	var entries []catalogEntry
	if err := json.NewDecoder(catalog).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}

	tagsByPath := map[string][]string{}
	if tags != nil {
		if err := json.NewDecoder(tags).Decode(&tagsByPath); err != nil {
			log.Warn("failed to decode tags, importing without them: %v", err)
			tagsByPath = map[string][]string{}
		}
	}

	imported := 0
	for _, e := range entries {
		if e.Year <= 0 || e.Paper <= 0 || e.Question <= 0 {
			log.Warn("skipping malformed catalog entry: year=%d, paper=%d, question=%d", e.Year, e.Paper, e.Question)
			continue
		}

		q := models.Question{
			ID:        models.MakeQuestionID(e.Year, e.Paper, e.Question),
			Year:      e.Year % 100,
			Paper:     e.Paper,
			Number:    e.Question,
			Tags:      tagsByPath[e.File],
			ImagePath: e.File,
		}
		if err := s.questions.Upsert(ctx, q); err != nil {
			log.Error("failed to upsert question %s: %v", q.ID, err)
			return imported, err
		}
		imported++
	}

	log.Info("catalog import finished: %d questions", imported)
	return imported, nil
}
