package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"dormdesk/internal/common"
	"dormdesk/internal/config"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxFileNameBytes = 255

var allowedUploadTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

// UploadInput is a file to attach to an owner record
type UploadInput struct {
	OwnerType string
	OwnerID   uuid.UUID
	FileName  string
	Content   io.Reader
}

type DocumentService interface {
	Upload(ctx context.Context, orgID uuid.UUID, in UploadInput) (*models.Document, error)
	// Get returns the metadata with a presigned download URL
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID *uuid.UUID, page models.Pagination) ([]*models.Document, int, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type documentService struct {
	documentRepo   repositories.DocumentRepository
	storage        ObjectStorage
	audit          AuditLogsService
	maxUploadBytes int64
	presignExpiry  time.Duration
}

func NewDocumentService(documentRepo repositories.DocumentRepository, storage ObjectStorage, audit AuditLogsService, cfg config.StorageConfig) DocumentService {
	return &documentService{
		documentRepo:   documentRepo,
		storage:        storage,
		audit:          audit,
		maxUploadBytes: cfg.MaxUploadBytes,
		presignExpiry:  cfg.PresignExpiry,
	}
}

func validateOwnerType(ownerType string) error {
	if !slices.Contains(models.DocumentOwnerTypes, ownerType) {
		return fmt.Errorf("%w: owner_type must be one of %s", common.ErrInvalidInput, strings.Join(models.DocumentOwnerTypes, ", "))
	}
	return nil
}

func objectKey(orgID uuid.UUID, ownerType string, ownerID uuid.UUID, ext string) string {
	return fmt.Sprintf("org/%s/%s/%s/%s%s", orgID, ownerType, ownerID, uuid.New(), ext)
}

func cleanFileName(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	name = strings.ToValidUTF8(name, "")
	if len(name) > maxFileNameBytes {
		// keep the tail so the extension survives, starting on a whole rune
		cut := len(name) - maxFileNameBytes
		for cut < len(name) && !utf8.RuneStart(name[cut]) {
			cut++
		}
		name = name[cut:]
	}
	return name
}

func (s *documentService) Upload(ctx context.Context, orgID uuid.UUID, in UploadInput) (*models.Document, error) {
	if err := validateOwnerType(in.OwnerType); err != nil {
		return nil, err
	}
	exists, err := s.documentRepo.OwnerExists(ctx, orgID, in.OwnerType, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", in.OwnerType, common.ErrNotFound)
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.maxUploadBytes, common.ErrPayloadTooLarge)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrInvalidInput)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedUploadTypes...) {
		return nil, fmt.Errorf("%w: file type %s is not allowed", common.ErrInvalidInput, mtype.String())
	}

	doc := &models.Document{
		ID:             uuid.New(),
		OrganizationID: orgID,
		OwnerType:      in.OwnerType,
		OwnerID:        in.OwnerID,
		FileName:       cleanFileName(in.FileName),
		ContentType:    mtype.String(),
		SizeBytes:      int64(len(data)),
		ObjectKey:      objectKey(orgID, in.OwnerType, in.OwnerID, mtype.Extension()),
		UploadedBy:     common.ActorPtr(ctx),
	}

	if err := s.storage.PutObject(ctx, doc.ObjectKey, bytes.NewReader(data), doc.SizeBytes, doc.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if rmErr := s.storage.RemoveObject(ctx, doc.ObjectKey); rmErr != nil {
			logger.FromContext(ctx).Error("failed to remove orphaned object", zap.String("object_key", doc.ObjectKey), zap.Error(rmErr))
		}
		return nil, err
	}

	s.audit.Record(ctx, &orgID, "documents", doc.ID.String(), models.ActionInsert, nil, doc)
	s.presign(ctx, doc)
	return doc, nil
}

// presign fills the download URL. Metadata is still useful without it.
func (s *documentService) presign(ctx context.Context, doc *models.Document) {
	url, err := s.storage.PresignedURL(ctx, doc.ObjectKey, s.presignExpiry)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to presign document", zap.String("document_id", doc.ID.String()), zap.Error(err))
		return
	}
	doc.URL = url
}

func (s *documentService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	s.presign(ctx, doc)
	return doc, nil
}

func (s *documentService) List(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID *uuid.UUID, page models.Pagination) ([]*models.Document, int, error) {
	if ownerType != "" {
		if err := validateOwnerType(ownerType); err != nil {
			return nil, 0, err
		}
	} else if ownerID != nil {
		return nil, 0, fmt.Errorf("%w: owner_id requires owner_type", common.ErrInvalidInput)
	}
	page.Limit, page.Offset = common.ValidatePaginationParams(page.Limit, page.Offset)
	return s.documentRepo.ListByOwner(ctx, orgID, ownerType, ownerID, page)
}

func (s *documentService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	doc, err := s.documentRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	if err := s.storage.RemoveObject(ctx, doc.ObjectKey); err != nil {
		logger.FromContext(ctx).Error("failed to remove object", zap.String("object_key", doc.ObjectKey), zap.Error(err))
	}
	s.audit.Record(ctx, &orgID, "documents", id.String(), models.ActionDelete, doc, nil)
	return nil
}
