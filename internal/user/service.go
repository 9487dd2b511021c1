package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/policy"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRole        = errors.New("invalid role")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*UserResponse, *TokenPair, error)
	GoogleLogin(ctx context.Context, dto GoogleLoginDTO) (*UserResponse, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Me(ctx context.Context) (*UserResponse, error)
	UpdateMe(ctx context.Context, dto UpdateMeDTO) (*UserResponse, error)
	PromoteRole(ctx context.Context, targetID uuid.UUID, dto PromoteRoleDTO) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]*UserResponse, error)
}

type userService struct {
	repo     UserRepository
	authz    *policy.Authorizer
	identity IdentityProvider
}

func NewService(repo UserRepository, authz *policy.Authorizer, identity IdentityProvider) UserService {
	return &userService{
		repo:     repo,
		authz:    authz,
		identity: identity,
	}
}

// Register provisions an account for a fresh identity. Every self
// registration materializes as a student: role claims supplied at signup
// are ignored, and only an existing admin can promote an account later.
func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	u := User{
		ID:           uuid.New(),
		Email:        dto.Email,
		Name:         dto.Name,
		Role:         RoleStudent,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(&u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.WithField("email", dto.Email).Warn("Registration with already registered email")
			return nil, ErrEmailTaken
		}
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered successfully")
	return toResponse(&u), nil
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*UserResponse, *TokenPair, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to look up user for login")
		return nil, nil, err
	}

	if u.PasswordHash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		log.WithField("user_id", u.ID).Warn("Login with wrong password")
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		log.WithError(err).Error("Failed to issue tokens")
		return nil, nil, err
	}

	log.WithField("user_id", u.ID).Info("User logged in successfully")
	return toResponse(u), tokens, nil
}

// GoogleLogin exchanges the authorization code with the identity
// provider and provisions the account on first sign-in. Provisioning is
// idempotent: a repeat sign-in for the same identity reuses the row.
func (s *userService) GoogleLogin(ctx context.Context, dto GoogleLoginDTO) (*UserResponse, *TokenPair, error) {
	log := config.WithContext(ctx)

	token, err := s.identity.Exchange(ctx, dto.Code)
	if err != nil {
		log.WithError(err).Error("Google code exchange failed")
		return nil, nil, ErrIdentityUnavailable
	}

	profile, err := s.identity.Profile(ctx, token)
	if err != nil {
		log.WithError(err).Error("Failed to fetch Google profile")
		return nil, nil, err
	}

	u, err := s.repo.FindByEmail(profile.Email)
	if errors.Is(err, ErrNotFound) {
		u = &User{
			ID:    uuid.New(),
			Email: profile.Email,
			Name:  profile.Name,
			Role:  RoleStudent,
		}
		if token.RefreshToken != "" {
			encrypted, encErr := config.Encrypt(token.RefreshToken)
			if encErr != nil {
				log.WithError(encErr).Error("Failed to encrypt refresh token")
				return nil, nil, encErr
			}
			u.GoogleRefreshToken = encrypted
		}
		if createErr := s.repo.Create(u); createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				// Concurrent first sign-in for the same identity; the
				// row already exists, reuse it.
				u, err = s.repo.FindByEmail(profile.Email)
				if err != nil {
					return nil, nil, err
				}
			} else {
				log.WithError(createErr).Error("Failed to provision Google user")
				return nil, nil, createErr
			}
		} else {
			log.WithField("user_id", u.ID).Info("Provisioned account from Google sign-in")
		}
	} else if err != nil {
		log.WithError(err).Error("Failed to look up user for Google login")
		return nil, nil, err
	} else if token.RefreshToken != "" {
		encrypted, encErr := config.Encrypt(token.RefreshToken)
		if encErr == nil {
			u.GoogleRefreshToken = encrypted
			if updErr := s.repo.Update(u); updErr != nil {
				log.WithError(updErr).Warn("Failed to store refreshed Google token")
			}
		}
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		log.WithError(err).Error("Failed to issue tokens")
		return nil, nil, err
	}

	log.WithField("user_id", u.ID).Info("User logged in with Google successfully")
	return toResponse(u), tokens, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := config.WithContext(ctx)

	claims, err := auth.ValidateJWT(refreshToken)
	if err != nil {
		log.WithError(err).Warn("Invalid refresh token")
		return nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	// Re-read the account so a role change takes effect on rotation.
	u, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		log.WithError(err).Error("Failed to rotate tokens")
		return nil, err
	}
	return tokens, nil
}

func (s *userService) Me(ctx context.Context) (*UserResponse, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table:   policy.TableAccounts,
		OwnerID: callerID,
	}); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func (s *userService) UpdateMe(ctx context.Context, dto UpdateMeDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table:   policy.TableAccounts,
		OwnerID: callerID,
	}); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(callerID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && *dto.Name != "" {
		u.Name = *dto.Name
	}

	if err := s.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to update user")
		return nil, err
	}
	return toResponse(u), nil
}

// PromoteRole changes another account's role. Only admins reach this
// path; self-service role escalation has no route.
func (s *userService) PromoteRole(ctx context.Context, targetID uuid.UUID, dto PromoteRoleDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, policy.ErrPermissionDenied
	}

	if !dto.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	u, err := s.repo.FindByID(targetID)
	if err != nil {
		return nil, err
	}

	u.Role = dto.Role
	if err := s.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to update role")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"admin_id":  callerID,
		"target_id": targetID,
		"role":      dto.Role,
	}).Info("Role updated successfully")
	return toResponse(u), nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*UserResponse, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Reading accounts other than one's own is admin-only.
	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table: policy.TableAccounts,
	}); err != nil {
		return nil, err
	}

	users, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toResponse(u))
	}
	return responses, nil
}

func (s *userService) issueTokens(u *User) (*TokenPair, error) {
	access, err := auth.GenerateJWT(u.ID.String(), string(u.Role), auth.AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateJWT(u.ID.String(), string(u.Role), auth.RefreshTokenDuration)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func callerIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}
