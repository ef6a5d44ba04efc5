package services

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
)

type OrganizationService interface {
	Create(ctx context.Context, req *models.CreateOrganizationRequest) (*models.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateOrganizationRequest) (*models.Organization, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Organization, error)
	List(ctx context.Context, status string, page models.Pagination) ([]*models.Organization, int, error)
}

// OrganizationSessionEvictor drops the cached principals of an organization's users
type OrganizationSessionEvictor interface {
	EvictOrganizationSessions(ctx context.Context, orgID uuid.UUID) error
}

type organizationService struct {
	orgRepo  repositories.OrganizationRepository
	sessions OrganizationSessionEvictor
	audit    AuditLogsService
}

func NewOrganizationService(orgRepo repositories.OrganizationRepository, sessions OrganizationSessionEvictor, audit AuditLogsService) OrganizationService {
	return &organizationService{orgRepo: orgRepo, sessions: sessions, audit: audit}
}

// Create stores the organization with default settings and, when requested, its first admin
func (s *organizationService) Create(ctx context.Context, req *models.CreateOrganizationRequest) (*models.Organization, error) {
	name := strings.TrimSpace(req.Name)
	slug := strings.TrimSpace(req.Slug)
	if name == "" || slug == "" {
		return nil, fmt.Errorf("%w: name and slug are required", common.ErrInvalidInput)
	}

	org := &models.Organization{
		ID:      uuid.New(),
		Name:    name,
		Slug:    slug,
		Address: req.Address,
		Phone:   req.Phone,
		Status:  models.OrganizationActive,
	}

	var admin *models.User
	if req.AdminEmail != "" {
		if req.AdminPassword == "" {
			return nil, fmt.Errorf("%w: admin_password is required with admin_email", common.ErrInvalidInput)
		}
		hash, err := HashPassword(req.AdminPassword)
		if err != nil {
			return nil, err
		}
		fullName := strings.TrimSpace(req.AdminName)
		if fullName == "" {
			fullName = name + " admin"
		}
		admin = &models.User{
			Email:        req.AdminEmail,
			PasswordHash: hash,
			FullName:     fullName,
			Role:         models.RoleAdmin,
			Status:       models.UserActive,
		}
	}

	if err := s.orgRepo.CreateWithDefaults(ctx, org, maps.Clone(models.DefaultSystemConfig), admin); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &org.ID, "organizations", org.ID.String(), models.ActionInsert, nil, org)
	if admin != nil {
		s.audit.Record(ctx, &org.ID, "users", admin.ID.String(), models.ActionInsert, nil, admin)
	}
	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return s.orgRepo.GetByID(ctx, id)
}

func (s *organizationService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateOrganizationRequest) (*models.Organization, error) {
	existing, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *existing

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", common.ErrInvalidInput)
		}
		existing.Name = name
	}
	if req.Address != nil {
		existing.Address = *req.Address
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}

	if err := s.orgRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &id, "organizations", id.String(), models.ActionUpdate, before, existing)
	return existing, nil
}

func (s *organizationService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Organization, error) {
	if status != models.OrganizationActive && status != models.OrganizationSuspended {
		return nil, fmt.Errorf("%w: status must be active or suspended", common.ErrInvalidInput)
	}
	existing, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != status {
		if err := s.orgRepo.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
		s.audit.Record(ctx, &id, "organizations", id.String(), models.ActionStatusChange,
			models.JSONB{"status": existing.Status}, models.JSONB{"status": status})
		existing.Status = status
	}

	// suspension takes effect on the next request; repeating it retries the eviction
	if status == models.OrganizationSuspended {
		if err := s.sessions.EvictOrganizationSessions(ctx, id); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

func (s *organizationService) List(ctx context.Context, status string, page models.Pagination) ([]*models.Organization, int, error) {
	page.Limit, page.Offset = common.ValidatePaginationParams(page.Limit, page.Offset)
	return s.orgRepo.List(ctx, status, page)
}
