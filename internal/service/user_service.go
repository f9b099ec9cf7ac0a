package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"creditdesk/internal/model"
	"creditdesk/internal/rbac"
	"creditdesk/internal/repository"
	"creditdesk/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for Request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, ip string, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, actor Actor, refreshToken string)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	GetProfile(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor Actor, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor Actor, id string) error
}

type userService struct {
	repo     repository.UserRepository
	auditSvc AuditService
	rbacCfg  *rbac.Config
	secret   []byte
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, auditSvc AuditService, rbacCfg *rbac.Config, secret []byte) UserService {
	return &userService{repo: repo, auditSvc: auditSvc, rbacCfg: rbacCfg, secret: secret}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error) {
	if !s.rbacCfg.KnownRole(req.Role) {
		return nil, fmt.Errorf("invalid role %q, must be one of %s: %w",
			req.Role, strings.Join(s.rbacCfg.Roles(), ", "), apperr.ErrValidation)
	}

	// Double check username/email uniqueness via repo directly
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already exists: %w", apperr.ErrDuplicateState)
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already exists: %w", apperr.ErrDuplicateState)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionCreate,
		EntityType: model.EntityUser,
		EntityID:   user.ID.String(),
		Details:    map[string]string{"username": user.Username, "role": user.Role},
		Success:    true,
	})

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, ip string, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Unknown email: audited without a user id
		s.auditSvc.Record(ctx, Actor{IP: ip}, AuditEntry{
			Action:     model.ActionLogin,
			EntityType: model.EntityUser,
			Details:    map[string]string{"email": req.Email, "reason": "unknown email"},
			Success:    false,
		})
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.auditSvc.Record(ctx, Actor{ID: &user.ID, Role: user.Role, IP: ip}, AuditEntry{
			Action:     model.ActionLogin,
			EntityType: model.EntityUser,
			EntityID:   user.ID.String(),
			Details:    map[string]string{"reason": "wrong password"},
			Success:    false,
		})
		return nil, fmt.Errorf("invalid email or password")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, Actor{ID: &user.ID, Role: user.Role, IP: ip}, AuditEntry{
		Action:     model.ActionLogin,
		EntityType: model.EntityUser,
		EntityID:   user.ID.String(),
		Success:    true,
	})

	return tokens, nil
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token not recognized: %w", apperr.ErrNotFound)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, fmt.Errorf("refresh token expired: %w", apperr.ErrValidation)
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}

	// Rotate: the old token is single-use
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, actor Actor, refreshToken string) {
	if refreshToken != "" {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
	}

	entityID := ""
	if actor.ID != nil {
		entityID = actor.ID.String()
	}
	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionLogout,
		EntityType: model.EntityUser,
		EntityID:   entityID,
		Success:    true,
	})
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := s.repo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refresh.Token}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}
	return mapToResponse(user), nil
}

// GetProfile returns the user plus the permission codes their role holds
func (s *userService) GetProfile(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}
	resp := mapToResponse(user)
	resp.Permissions = s.rbacCfg.Permissions(user.Role)
	return resp, nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapToResponse(&u))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}

	changes := map[string]string{}

	if req.Role != "" && req.Role != user.Role {
		if !s.rbacCfg.KnownRole(req.Role) {
			return nil, fmt.Errorf("invalid role %q, must be one of %s: %w",
				req.Role, strings.Join(s.rbacCfg.Roles(), ", "), apperr.ErrValidation)
		}
		changes["role"] = user.Role + " -> " + req.Role
		user.Role = req.Role
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
			return nil, fmt.Errorf("username already exists: %w", apperr.ErrDuplicateState)
		}
		changes["username"] = user.Username + " -> " + req.Username
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, fmt.Errorf("email already exists: %w", apperr.ErrDuplicateState)
		}
		changes["email"] = user.Email + " -> " + req.Email
		user.Email = req.Email
	}

	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityUser,
		EntityID:   user.ID.String(),
		Details:    changes,
		Success:    true,
	})

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionDelete,
		EntityType: model.EntityUser,
		EntityID:   id,
		Details:    map[string]string{"username": user.Username},
		Success:    true,
	})

	return nil
}
