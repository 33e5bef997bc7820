package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-storefront/models"
	"go-storefront/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid verification token")
)

// AccountMailer sends the emails of the sign-up flow.
type AccountMailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

// Registration is the sign-up form.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type UserService struct {
	users  UserRepository
	mailer AccountMailer
}

func NewUserService(users UserRepository, mailer AccountMailer) *UserService {
	return &UserService{users: users, mailer: mailer}
}

// Register creates an unverified customer and emails the verification link.
func (s *UserService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if err := Validate.Struct(reg); err != nil {
		return nil, FieldErrors(err)
	}

	if _, err := s.users.FindByEmail(ctx, reg.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := utils.GenerateJWT("", reg.Email, models.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("verification token: %w", err)
	}

	u := &models.User{
		Name:              strings.TrimSpace(reg.Name),
		Email:             reg.Email,
		Phone:             reg.Phone,
		Password:          string(hashed),
		Role:              models.RoleCustomer,
		VerificationToken: token,
		CreatedAt:         time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(ctx, u.Email, token); err != nil {
			utils.Logger(ctx).WithError(err).WithField("email", u.Email).Warn("verification email not sent")
		}
	}
	return u, nil
}

// Verify marks the owner of token as verified.
func (s *UserService) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if _, err := utils.ParseJWT(token); err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	u.IsVerified = true
	u.VerificationToken = ""

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(ctx, u.Email, u.Name); err != nil {
			utils.Logger(ctx).WithError(err).WithField("email", u.Email).Warn("welcome email not sent")
		}
	}
	return u, nil
}

// Login checks the credentials of a verified user and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	if !u.IsVerified {
		return "", ErrEmailNotVerified
	}
	return utils.GenerateJWT(u.ID.Hex(), u.Email, u.Role)
}

func (s *UserService) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// ProfileUpdate holds the fields a user may change on their profile.
type ProfileUpdate struct {
	Name    string         `json:"name" validate:"required"`
	Phone   string         `json:"phone"`
	Address models.Address `json:"address"`
}

func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	if err := Validate.Struct(upd); err != nil {
		return nil, FieldErrors(err)
	}
	if err := s.users.UpdateProfile(ctx, id, strings.TrimSpace(upd.Name), upd.Phone, upd.Address); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}
