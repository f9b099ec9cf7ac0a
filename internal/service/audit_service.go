package service

import (
	"context"
	"encoding/json"
	"fmt"

	"creditdesk/internal/model"
	"creditdesk/internal/repository"
	"creditdesk/pkg/apperr"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Actor identifies who is performing an operation, resolved from the JWT by
// the handler layer. ID is nil for unauthenticated actions (failed logins).
type Actor struct {
	ID   *uuid.UUID
	Role string
	IP   string
}

// AuditEntry describes one action to record
type AuditEntry struct {
	Action     string
	EntityType string
	EntityID   string
	Details    interface{} // marshalled to JSON, may be nil
	Success    bool
}

type AuditLogFilter struct {
	Action     string
	EntityType string
	UserID     string
	Page       int
	Limit      int
}

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	IPAddress  string `json:"ip_address"`
	Details    string `json:"details"`
	Success    bool   `json:"success"`
	CreatedAt  string `json:"created_at"`
}

// AuditService records Who/What/When rows for every state change. Record is
// best-effort: a failed write is logged but never fails the calling operation.
type AuditService interface {
	Record(ctx context.Context, actor Actor, entry AuditEntry)
	ListLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, actor Actor, entry AuditEntry) {
	details := ""
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			logrus.WithError(err).Warn("audit: failed to marshal details")
		} else {
			details = string(raw)
		}
	}

	row := &model.AuditLog{
		UserID:     actor.ID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		IPAddress:  actor.IP,
		Details:    details,
		Success:    entry.Success,
	}

	if err := s.repo.Log(ctx, row); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action": entry.Action,
			"entity": entry.EntityType,
		}).Error("audit: failed to record entry")
	}
}

func (s *auditService) ListLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.AuditListFilter{
		Action:     filter.Action,
		EntityType: filter.EntityType,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if filter.UserID != "" {
		id, err := uuid.Parse(filter.UserID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid user id: %w", apperr.ErrValidation)
		}
		repoFilter.UserID = &id
	}

	logs, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		userID := ""
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			IPAddress:  l.IPAddress,
			Details:    l.Details,
			Success:    l.Success,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
