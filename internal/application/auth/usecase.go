package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminSeed datos del administrador que se crea cuando no hay usuarios.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthUseCase casos de uso de autenticación y perfil del operador.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y contraseña incorrecta responden igual (ErrUnauthorized).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// GetProfile devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("perfil: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// UpdateProfile aplica los campos no nulos de in.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("perfil: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		user.Name = name
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&user.Phone, in.Phone)
	set(&user.BusinessName, in.BusinessName)
	set(&user.Address, in.Address)
	set(&user.Currency, in.Currency)
	set(&user.ShopDescription, in.ShopDescription)
	set(&user.BusinessLogo, in.BusinessLogo)
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.NewValidationError("low_stock_threshold", "no puede ser negativo")
		}
		user.LowStockThreshold = *in.LowStockThreshold
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("actualizar perfil: %w", err)
	}
	return toUserResponse(user), nil
}

// SeedDefaultAdmin crea el administrador si la tabla de usuarios está vacía.
// Devuelve true si lo creó.
func (uc *AuthUseCase) SeedDefaultAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if seed.Email == "" || seed.Password == "" {
		uc.log.Warn().Msg("sin usuarios y sin ADMIN_EMAIL/ADMIN_PASSWORD: no se crea administrador")
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	now := time.Now()
	name := seed.Name
	if name == "" {
		name = seed.Email
	}
	user := &entity.User{
		ID:                uuid.New().String(),
		Name:              name,
		Email:             strings.TrimSpace(seed.Email),
		PasswordHash:      string(hash),
		Phone:             seed.Phone,
		LowStockThreshold: entity.DefaultLowStockThreshold,
		Role:              entity.RoleAdmin,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	uc.log.Info().Str("email", user.Email).Msg("administrador por defecto creado")
	return true, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		BusinessName:      u.BusinessName,
		Address:           u.Address,
		Currency:          u.Currency,
		ShopDescription:   u.ShopDescription,
		BusinessLogo:      u.BusinessLogo,
		LowStockThreshold: u.LowStockThreshold,
		Role:              u.Role,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
