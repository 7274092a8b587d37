package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openomi/pof-auditor/internal/models"
	"github.com/openomi/pof-auditor/internal/schema"
	"github.com/openomi/pof-auditor/internal/storage"
	"github.com/openomi/pof-auditor/internal/utils"
)

// Extractor runs the per-document parse/extract flow against stored objects.
type Extractor struct {
	storage   storage.Storage
	client    Client
	validator *schema.Validator
	logger    *utils.Logger
}

func NewExtractor(store storage.Storage, client Client, validator *schema.Validator, logger *utils.Logger) *Extractor {
	return &Extractor{
		storage:   store,
		client:    client,
		validator: validator,
		logger:    logger,
	}
}

// ExtractDocument produces exactly one record for one stored document. Every
// failure, whether transport, vendor, or validation, is converted into the
// record's error field: one bad document must never abort the batch.
func (e *Extractor) ExtractDocument(ctx context.Context, doc models.StoredDocument) models.ExtractionRecord {
	record := models.ExtractionRecord{
		OriginalName: doc.OriginalName,
		StorageKey:   doc.StorageKey,
	}

	data, err := e.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		e.logger.Error("failed to download document", "key", doc.StorageKey, "error", err)
		record.Err = fmt.Sprintf("extraction failed for document %s: %v", doc.OriginalName, err)
		return record
	}

	markdown, err := e.client.Parse(ctx, doc.OriginalName, data)
	if err != nil {
		e.logger.Error("parse failed", "key", doc.StorageKey, "error", err)
		record.Err = fmt.Sprintf("extraction failed for document %s: %v", doc.OriginalName, err)
		return record
	}

	extracted, err := e.client.Extract(ctx, markdown)
	if err != nil {
		e.logger.Error("structured extraction failed", "key", doc.StorageKey, "error", err)
		record.Err = fmt.Sprintf("extraction failed for document %s: %v", doc.OriginalName, err)
		return record
	}

	statement, err := e.decodeStatement(extracted)
	if err != nil {
		e.logger.Error("extraction payload rejected", "key", doc.StorageKey, "error", err)
		record.Err = fmt.Sprintf("extraction failed for document %s: %v", doc.OriginalName, err)
		return record
	}

	e.logger.Info("document extracted",
		"key", doc.StorageKey,
		"account_holder", statement.AccountHolder,
		"transactions", len(statement.Transactions))

	record.Statement = statement
	return record
}

// decodeStatement validates the vendor payload against the bank-statement
// schema and decodes it into the typed record.
func (e *Extractor) decodeStatement(extracted map[string]any) (*models.BankStatement, error) {
	if err := e.validator.Validate(extracted); err != nil {
		return nil, fmt.Errorf("payload does not match schema: %v", err)
	}

	raw, err := json.Marshal(extracted)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode payload: %w", err)
	}

	var statement models.BankStatement
	if err := json.Unmarshal(raw, &statement); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return &statement, nil
}
