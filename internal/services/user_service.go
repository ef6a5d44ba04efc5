package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
)

// SessionRevoker ends every session of a user, or forgets their cached principals
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) error
	EvictUserSessions(ctx context.Context, userID uuid.UUID) error
}

type UserService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filters models.UserFilters) ([]*models.User, int, error)
}

type userService struct {
	userRepo repositories.UserRepository
	rbac     RBACService
	sessions SessionRevoker
	audit    AuditLogsService
}

func NewUserService(userRepo repositories.UserRepository, rbac RBACService, sessions SessionRevoker, audit AuditLogsService) UserService {
	return &userService{userRepo: userRepo, rbac: rbac, sessions: sessions, audit: audit}
}

func (s *userService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateUserRequest) (*models.User, error) {
	actorRole, _ := common.GetRoleFromContext(ctx)
	if !s.rbac.CanAssignRole(actorRole, req.Role) {
		return nil, fmt.Errorf("%w: cannot create a user with role %s", common.ErrForbidden, req.Role)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		Status:       models.UserActive,
	}
	// platform operators belong to no organization
	if req.Role != models.RoleSuperAdmin {
		user.OrganizationID = &orgID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &orgID, "users", user.ID.String(), models.ActionInsert, nil, user)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, &orgID, id)
}

func (s *userService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, &orgID, id)
	if err != nil {
		return nil, err
	}
	before := *user
	actorID, _ := common.GetUserIDFromContext(ctx)
	actorRole, _ := common.GetRoleFromContext(ctx)

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil && *req.Role != user.Role {
		if !s.rbac.CanAssignRole(actorRole, *req.Role) || user.Role == models.RoleSuperAdmin {
			return nil, fmt.Errorf("%w: cannot change role to %s", common.ErrForbidden, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		if *req.Status == models.UserDisabled && id == actorID {
			return nil, fmt.Errorf("%w: you cannot disable your own account", common.ErrInvalidInput)
		}
		user.Status = *req.Status
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	switch {
	case before.Status == models.UserActive && user.Status == models.UserDisabled:
		if err := s.sessions.RevokeUserSessions(ctx, user.ID); err != nil {
			return nil, err
		}
	case before.Role != user.Role:
		// live sessions keep working under the new role
		if err := s.sessions.EvictUserSessions(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	action := models.ActionUpdate
	if before.Status != user.Status {
		action = models.ActionStatusChange
	}
	s.audit.Record(ctx, &orgID, "users", id.String(), action, before, user)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if actorID, ok := common.GetUserIDFromContext(ctx); ok && actorID == id {
		return fmt.Errorf("%w: you cannot delete your own account", common.ErrInvalidInput)
	}
	user, err := s.userRepo.GetByID(ctx, &orgID, id)
	if err != nil {
		return err
	}
	if err := s.sessions.RevokeUserSessions(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &orgID, "users", id.String(), models.ActionDelete, user, nil)
	return nil
}

func (s *userService) List(ctx context.Context, orgID uuid.UUID, filters models.UserFilters) ([]*models.User, int, error) {
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	return s.userRepo.List(ctx, orgID, filters)
}

// EnsureSuperAdmin creates the platform operator account unless the email is already taken.
// It reports whether a user was created.
func EnsureSuperAdmin(ctx context.Context, userRepo repositories.UserRepository, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	_, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	err = userRepo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         models.RoleSuperAdmin,
		Status:       models.UserActive,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
