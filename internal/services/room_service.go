package services

import (
	"context"
	"fmt"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
)

type RoomService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateRoomRequest) (*models.Room, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.RoomFilters) ([]*models.Room, int, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateRoomRequest) (*models.Room, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	SetStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Room, error)
}

type roomService struct {
	roomRepo repositories.RoomRepository
	cache    DashboardInvalidator
	audit    AuditLogsService
}

func NewRoomService(roomRepo repositories.RoomRepository, cache DashboardInvalidator, audit AuditLogsService) RoomService {
	return &roomService{roomRepo: roomRepo, cache: cache, audit: audit}
}

func (s *roomService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateRoomRequest) (*models.Room, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: number is required", common.ErrInvalidInput)
	}
	if req.MonthlyRent.IsNegative() {
		return nil, fmt.Errorf("%w: monthly_rent cannot be negative", common.ErrInvalidInput)
	}

	room := &models.Room{
		OrganizationID: orgID,
		Number:         number,
		Floor:          req.Floor,
		RoomType:       strings.TrimSpace(req.RoomType),
		MonthlyRent:    req.MonthlyRent.Round(2),
		Status:         models.RoomAvailable,
		Note:           req.Note,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "rooms", room.ID.String(), models.ActionInsert, nil, room)
	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Room, error) {
	return s.roomRepo.GetByID(ctx, orgID, id)
}

func (s *roomService) List(ctx context.Context, orgID uuid.UUID, filters models.RoomFilters) ([]*models.Room, int, error) {
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	return s.roomRepo.List(ctx, orgID, filters)
}

func (s *roomService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateRoomRequest) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	before := *room

	if req.Number != nil {
		number := strings.TrimSpace(*req.Number)
		if number == "" {
			return nil, fmt.Errorf("%w: number cannot be empty", common.ErrInvalidInput)
		}
		room.Number = number
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.RoomType != nil {
		room.RoomType = strings.TrimSpace(*req.RoomType)
	}
	if req.MonthlyRent != nil {
		if req.MonthlyRent.IsNegative() {
			return nil, fmt.Errorf("%w: monthly_rent cannot be negative", common.ErrInvalidInput)
		}
		room.MonthlyRent = req.MonthlyRent.Round(2)
	}
	if req.Note != nil {
		room.Note = *req.Note
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &orgID, "rooms", id.String(), models.ActionUpdate, before, room)
	return room, nil
}

func (s *roomService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	room, err := s.roomRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.roomRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "rooms", id.String(), models.ActionDelete, room, nil)
	return nil
}

func (s *roomService) SetStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Room, error) {
	switch status {
	case models.RoomAvailable, models.RoomOccupied, models.RoomMaintenance:
	default:
		return nil, fmt.Errorf("%w: unknown room status %q", common.ErrInvalidInput, status)
	}
	before, err := s.roomRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := s.roomRepo.SetStatus(ctx, orgID, id, status); err != nil {
		return nil, err
	}
	room, err := s.roomRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if room.Status != before.Status {
		invalidateDashboard(ctx, s.cache, orgID)
		s.audit.Record(ctx, &orgID, "rooms", id.String(), models.ActionStatusChange,
			models.JSONB{"status": before.Status}, models.JSONB{"status": room.Status})
	}
	return room, nil
}
