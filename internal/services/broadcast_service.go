package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const defaultBroadcastConcurrency = 8

type BroadcastService interface {
	Broadcast(ctx context.Context, orgID uuid.UUID, req *models.BroadcastRequest) (*models.BroadcastResult, error)
}

type broadcastService struct {
	residentRepo  repositories.ResidentRepository
	notifications NotificationService
	audit         AuditLogsService
	concurrency   int
}

func NewBroadcastService(residentRepo repositories.ResidentRepository, notifications NotificationService, audit AuditLogsService, concurrency int) BroadcastService {
	if concurrency <= 0 {
		concurrency = defaultBroadcastConcurrency
	}
	return &broadcastService{residentRepo: residentRepo, notifications: notifications, audit: audit, concurrency: concurrency}
}

func (s *broadcastService) Broadcast(ctx context.Context, orgID uuid.UUID, req *models.BroadcastRequest) (*models.BroadcastResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", common.ErrInvalidInput)
	}
	roomIDs := make([]uuid.UUID, 0, len(req.RoomIDs))
	for _, raw := range req.RoomIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid room id %q", common.ErrInvalidInput, raw)
		}
		roomIDs = append(roomIDs, id)
	}

	recipients, err := s.residentRepo.ListChatRecipients(ctx, orgID, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}

	var sent atomic.Int64
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for _, resident := range recipients {
		to := *resident.ChatUserID
		p.Go(func() {
			if s.notifications.Send(ctx, NotifyBroadcast, to, message) {
				sent.Add(1)
			}
		})
	}
	p.Wait()

	result := &models.BroadcastResult{
		Recipients: len(recipients),
		Sent:       int(sent.Load()),
	}
	result.Failed = result.Recipients - result.Sent

	s.audit.Record(ctx, &orgID, "broadcasts", uuid.NewString(), models.ActionInsert, nil, models.JSONB{
		"message":    message,
		"room_ids":   req.RoomIDs,
		"recipients": result.Recipients,
		"sent":       result.Sent,
		"failed":     result.Failed,
	})
	logger.FromContext(ctx).Info("broadcast finished",
		zap.Int("recipients", result.Recipients),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
