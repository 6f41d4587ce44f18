package services

import (
	"errors"

	"voltbay/internal/auth"
	"voltbay/internal/domain"
	"voltbay/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
)

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.Tokens
}

func NewAuthService(users *repos.UserRepo, tokens *auth.Tokens) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

func (s *AuthService) Register(email, name, password string) (*domain.User, string, error) {
	if u, err := s.Users.ByEmail(email); err == nil && u != nil {
		return nil, "", ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(hash),
		Role:  "USER",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	tok, err := s.Tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.Tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}
