// Package audit orchestrates the proof-of-funds pipeline: upload the batch,
// extract every document, assemble the ordered dossier, obtain the agent's
// report, and derive the verdict. Data flows strictly forward; no stage
// reads from a later one.
package audit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openomi/pof-auditor/internal/models"
	"github.com/openomi/pof-auditor/internal/reasoning"
	"github.com/openomi/pof-auditor/internal/storage"
	"github.com/openomi/pof-auditor/internal/utils"
	"github.com/openomi/pof-auditor/internal/verdict"
)

// extractConcurrency bounds the per-document extraction fan-out.
const extractConcurrency = 4

// DocumentExtractor produces exactly one record per stored document.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, doc models.StoredDocument) models.ExtractionRecord
}

type Service interface {
	Run(ctx context.Context, docs []models.UploadedDocument, req models.AuditRequest) (*models.AuditResult, error)
}

type auditService struct {
	storage   storage.Storage
	extractor DocumentExtractor
	reasoner  reasoning.Reasoner
	logger    *utils.Logger
}

func NewService(store storage.Storage, extractor DocumentExtractor, reasoner reasoning.Reasoner, logger *utils.Logger) Service {
	return &auditService{
		storage:   store,
		extractor: extractor,
		reasoner:  reasoner,
		logger:    logger,
	}
}

func (s *auditService) Run(ctx context.Context, docs []models.UploadedDocument, req models.AuditRequest) (*models.AuditResult, error) {
	if len(docs) == 0 {
		return nil, utils.NewBadRequestError("At least one document is required")
	}
	if req.FamilySize < 1 {
		return nil, utils.NewBadRequestError("Family size must be at least 1")
	}
	if req.ProgramCode == "" {
		return nil, utils.NewBadRequestError("Program code is required")
	}

	start := time.Now()

	stored, err := s.storage.UploadAll(ctx, docs)
	if err != nil {
		s.logger.Error("upload failed", "error", err, "documents", len(docs))
		return nil, utils.NewInternalError(fmt.Sprintf("upload failed: %v", err))
	}

	s.logger.Info("documents uploaded", "count", len(stored), "program", req.ProgramCode)

	records := s.extractAll(ctx, stored)
	dossier := Aggregate(records)

	report := s.reasoner.Reason(ctx, dossier, req)

	result := &models.AuditResult{
		Timestamp:      time.Now().UTC(),
		Verdict:        verdict.Derive(report),
		DocumentCount:  len(dossier),
		ElapsedSeconds: time.Since(start).Seconds(),
		RedFlagCount:   verdict.CountRedFlags(report),
		ReportText:     report,
		Dossier:        dossier,
	}

	s.logger.Info("audit completed",
		"verdict", result.Verdict,
		"documents", result.DocumentCount,
		"red_flags", result.RedFlagCount,
		"elapsed_seconds", result.ElapsedSeconds)

	return result, nil
}

// extractAll fans extraction out across documents. Each goroutine owns a
// distinct index slot, so the result order reflects upload order regardless
// of completion order and no locking is needed. Extraction never fails the
// batch: failures live inside the records.
func (s *auditService) extractAll(ctx context.Context, stored []models.StoredDocument) []models.ExtractionRecord {
	records := make([]models.ExtractionRecord, len(stored))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(extractConcurrency)

	for i, doc := range stored {
		eg.Go(func() error {
			records[i] = s.extractor.ExtractDocument(gctx, doc)
			return nil
		})
	}

	// Workers never return errors; Wait is only a join point.
	_ = eg.Wait()

	return records
}

// Aggregate assembles the ordered dossier. It is pure and order-preserving,
// and keeps errored records: the reasoning stage accounts for missing or
// unreadable documents in its narrative, so nothing is filtered here.
func Aggregate(records []models.ExtractionRecord) models.Dossier {
	dossier := make(models.Dossier, len(records))
	copy(dossier, records)
	return dossier
}
