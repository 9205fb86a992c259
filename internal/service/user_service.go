package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/repository/repoargs"
	"github.com/fsdevblog/groph-orders/internal/service/tokens"
	"github.com/fsdevblog/groph-orders/pkg/uow"
)

// DefaultTokenTTL время жизни токена. Роль зашита в токен, поэтому срок короткий: смена роли
// доходит до клиента не позже чем через DefaultTokenTTL.
const DefaultTokenTTL = 15 * time.Minute

// dummyPasswordHash валидный bcrypt хеш с bcrypt.DefaultCost. С ним сравнивается пароль, когда юзер
// не найден, чтобы время ответа не выдавало существование юзернейма.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	hasher         PasswordHasher
	jwtTokenSecret []byte
	tokenTTL       time.Duration
}

func NewUserService(
	u uow.UOW,
	jwtTokenSecret []byte,
	hasher PasswordHasher,
	tokenTTL time.Duration,
) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		hasher:         hasher,
		jwtTokenSecret: jwtTokenSecret,
		tokenTTL:       tokenTTL,
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Password string
}

// Register создает юзера с ролью domain.RoleUser. Ошибки: domain.ErrValidation для пустых полей,
// domain.ErrAlreadyExists если юзернейм занят.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, error) {
	if args.Username == "" || args.Password == "" {
		return nil, fmt.Errorf("registering user: username and password are required: %w", domain.ErrValidation)
	}

	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, fmt.Errorf("registering user: %s", hashErr.Error())
	}

	user, createErr := s.userRepo.CreateUser(ctx, repoargs.CreateUser{
		Username: args.Username,
		Password: password,
		Role:     domain.RoleUser,
	})
	if createErr != nil {
		// уникальность юзернейма обеспечивает индекс в базе, конфликт означает занятый юзернейм.
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("registering user: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("registering user: %w", createErr)
	}
	return user, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login аутентифицирует юзера по паре логин/пароль и выдает jwt токен. Неизвестный юзер и неверный
// пароль возвращают одну и ту же ошибку domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindUserByUsername(ctx, args.Username)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			_ = s.hasher.ComparePassword(args.Password, dummyPasswordHash)
			return nil, "", fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("login: %w", findErr)
	}

	if !s.hasher.ComparePassword(args.Password, user.EncryptedPassword) {
		return nil, "", fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Role, s.tokenTTL, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login: %w", tokenErr)
	}
	return user, token, nil
}

// ChangeRole меняет роль юзера. Действует только на токены, выданные после изменения.
func (s *UserService) ChangeRole(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	if _, ok := domain.ParseRole(string(role)); !ok {
		return nil, fmt.Errorf("changing role: unknown role %q: %w", role, domain.ErrValidation)
	}
	user, err := s.userRepo.UpdateRole(ctx, username, role)
	if err != nil {
		return nil, fmt.Errorf("changing role: %w", err)
	}
	return user, nil
}
