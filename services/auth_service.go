package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"gorm.io/gorm"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	db     *gorm.DB
	tokens *utils.TokenIssuer
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenIssuer) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, validationError("Username dan password harus diisi")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &Error{Kind: KindUnauthorized, Message: "Username atau password salah"}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPasswordHash(in.Password, user.Password) {
		return nil, &Error{Kind: KindUnauthorized, Message: "Username atau password salah"}
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResult{User: &user, Token: token}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &Error{Kind: KindUnauthorized, Message: "User tidak ditemukan"}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

type UpdateProfileInput struct {
	FullName  *string `json:"namaLengkap"`
	AvatarURL *string `json:"fotoProfil" binding:"omitempty,url"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"passwordLama" binding:"required"`
	NewPassword string `json:"passwordBaru" binding:"required,min=6"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, validationError("Nama lengkap tidak boleh kosong")
		}
		updates["full_name"] = name
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(in.OldPassword, user.Password) {
		return validationError("Password lama salah")
	}
	if len(in.NewPassword) < 6 {
		return validationError("Password baru minimal 6 karakter")
	}
	hashed, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
