package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hospital-booking/internal/model"
	"hospital-booking/internal/token"
	"hospital-booking/pkg/apierror"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type PatientProfileStore interface {
	Upsert(ctx context.Context, p model.PatientProfile) error
}

// AuthService owns registration, login and the account lifecycle rules that
// decide whether an account may authenticate at all.
type AuthService struct {
	users    UserStore
	profiles PatientProfileStore
	codec    *token.Codec
}

func NewAuthService(users UserStore, profiles PatientProfileStore, codec *token.Codec) *AuthService {
	return &AuthService{users: users, profiles: profiles, codec: codec}
}

// TokenPair is the freshly minted cookie payload for a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         model.AccountUser
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AccountUser, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RolePatient
	}

	// First violated field wins, matching the form-level validation order.
	switch {
	case req.Email == "" || !emailPattern.MatchString(req.Email):
		return model.AccountUser{}, apierror.BadRequest("Invalid email address", "email")
	case len(req.Password) < 8:
		return model.AccountUser{}, apierror.BadRequest("Password must be at least 8 characters", "password")
	case len(req.Name) < 2:
		return model.AccountUser{}, apierror.BadRequest("Name must be at least 2 characters", "name")
	case role != model.RolePatient && role != model.RoleDoctor:
		return model.AccountUser{}, apierror.BadRequest("Invalid role", "role")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.AccountUser{}, err
	}
	if exists {
		return model.AccountUser{}, model.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AccountUser{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         role,
		// Doctors need admin approval before their first login succeeds.
		Approved:  role != model.RoleDoctor,
		Blocked:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AccountUser{}, err
	}

	// Patients get an empty profile immediately; doctor profiles are created
	// lazily on the first profile save.
	if role == model.RolePatient {
		if err := s.profiles.Upsert(ctx, model.PatientProfile{UserID: user.ID}); err != nil {
			return model.AccountUser{}, err
		}
	}

	return user.Account(), nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case email == "" || !emailPattern.MatchString(email):
		return TokenPair{}, apierror.BadRequest("Invalid email address", "email")
	case req.Password == "":
		return TokenPair{}, apierror.BadRequest("Password is required", "password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		// Same message as a wrong password so emails cannot be enumerated.
		return TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return TokenPair{}, model.ErrInvalidCredentials
	}

	// Lifecycle rules run after the password check, so blocked/pending
	// status is only revealed to a caller who knows the credentials.
	if err := canAuthenticate(user); err != nil {
		return TokenPair{}, err
	}

	identity := token.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	access, err := s.codec.Issue(token.KindAccess, identity)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.codec.Issue(token.KindRefresh, identity)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, User: user.Account()}, nil
}

// canAuthenticate applies the account lifecycle rules. Blocked wins over
// pending approval; both surface specific reasons while credential
// mismatches stay generic.
func canAuthenticate(user model.User) error {
	if user.Blocked {
		return model.ErrAccountBlocked
	}
	if user.Role == model.RoleDoctor && !user.Approved {
		return model.ErrPendingApproval
	}
	return nil
}

// CurrentUser loads the account behind a verified session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (model.AccountUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AccountUser{}, err
	}
	return user.Account(), nil
}
