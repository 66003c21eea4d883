package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrSamePassword      = errors.New("new password must differ from the current one")
	ErrPasswordMismatch  = errors.New("password confirmation does not match")
	ErrSelfBlock         = errors.New("cannot block or unblock yourself")
	ErrSelfDelete        = errors.New("cannot delete yourself")
	ErrSelfSuperAdmin    = errors.New("cannot change your own super admin status")
	ErrInvalidPermission = errors.New("unknown permission")
)

// UserService covers profile self-service plus the admin-side account
// management (admins and customers alike).
type UserService struct {
	userRepo   repository.UserRepository
	auth       *AuthService
	bcryptCost int
	minPwLen   int
}

func NewUserService(userRepo repository.UserRepository, auth *AuthService, bcryptCost, minPasswordLength int) *UserService {
	return &UserService{userRepo: userRepo, auth: auth, bcryptCost: bcryptCost, minPwLen: minPasswordLength}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.IsDeleted {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes the caller's own name/email/picture and re-issues
// a token carrying the new identity.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*model.User, string, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if req.Email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, "", fmt.Errorf("check email: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, "", ErrEmailTaken
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("update profile: %w", err)
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < s.minPwLen {
		return ErrPasswordTooShort
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.NewPassword)) == nil {
		return ErrSamePassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, id, string(hashed))
}

// --- Admin management ---

func (s *UserService) ListByRole(ctx context.Context, role string, req dto.ListUsersRequest) ([]model.User, int, *repository.UserStats, error) {
	filter := repository.UserFilter{
		Role:   role,
		Search: req.Search,
		Status: req.Status,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
	}
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("list users: %w", err)
	}
	stats, err := s.userRepo.Stats(ctx, role)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("user stats: %w", err)
	}
	return users, total, stats, nil
}

func (s *UserService) GetByRole(ctx context.Context, id uuid.UUID, role string) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) CreateAdmin(ctx context.Context, actorID uuid.UUID, req dto.CreateAdminRequest) (*model.User, error) {
	if len(req.Password) < s.minPwLen {
		return nil, ErrPasswordTooShort
	}
	for _, p := range req.Permissions {
		if !validPermission(p) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPermission, p)
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.User{
		Email:        req.Email,
		Password:     string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleAdmin,
		IsSuperAdmin: req.IsSuperAdmin,
		Permissions:  req.Permissions,
		CreatedBy:    &actorID,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

func (s *UserService) UpdateAdmin(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateAdminRequest) (*model.User, error) {
	admin, err := s.GetByRole(ctx, id, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	// An admin may not promote or demote themselves.
	if id == actorID && req.IsSuperAdmin != nil {
		return nil, ErrSelfSuperAdmin
	}

	if req.Email != nil && *req.Email != admin.Email {
		existing, err := s.userRepo.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrEmailTaken
		}
		admin.Email = *req.Email
	}
	if req.FirstName != nil {
		admin.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		admin.LastName = *req.LastName
	}
	if req.Permissions != nil {
		for _, p := range *req.Permissions {
			if !validPermission(p) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidPermission, p)
			}
		}
		admin.Permissions = *req.Permissions
	}
	if req.IsSuperAdmin != nil {
		admin.IsSuperAdmin = *req.IsSuperAdmin
	}

	if err := s.userRepo.UpdateAdmin(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update admin: %w", err)
	}
	return admin, nil
}

// SetBlocked blocks or unblocks an account of the given role and records
// the action in the audit trail. Blocking yourself is rejected.
func (s *UserService) SetBlocked(ctx context.Context, actorID, id uuid.UUID, role string, blocked bool, reason string) (*model.User, error) {
	if id == actorID {
		return nil, ErrSelfBlock
	}

	user, err := s.GetByRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, fmt.Errorf("set blocked: %w", err)
	}
	user.IsBlocked = blocked

	if reason != "" {
		action := "unblocked"
		if blocked {
			action = "blocked"
		}
		note := &model.StatusNote{UserID: id, Action: action, Reason: reason, PerformedBy: actorID}
		if err := s.userRepo.AddStatusNote(ctx, note); err != nil {
			return nil, fmt.Errorf("add status note: %w", err)
		}
		user.StatusNotes = append(user.StatusNotes, *note)
	}
	return user, nil
}

func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, role, newPassword string) error {
	if len(newPassword) < s.minPwLen {
		return ErrPasswordTooShort
	}
	if _, err := s.GetByRole(ctx, id, role); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, id, string(hashed))
}

// Delete soft deletes: the record is flagged, never removed. Deleting
// yourself is rejected.
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID, role string) error {
	if id == actorID {
		return ErrSelfDelete
	}
	if _, err := s.GetByRole(ctx, id, role); err != nil {
		return err
	}
	return s.userRepo.SoftDelete(ctx, id, actorID)
}

func (s *UserService) Stats(ctx context.Context, role string) (*repository.UserStats, error) {
	return s.userRepo.Stats(ctx, role)
}

func validPermission(p string) bool {
	for _, known := range model.AdminPermissions {
		if p == known {
			return true
		}
	}
	return false
}
