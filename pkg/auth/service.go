package auth

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"video-platform/pkg/apperr"
	"video-platform/pkg/database"
	"video-platform/pkg/models"
)

// UserStore is the slice of the persistence layer the auth flows need.
type UserStore interface {
	CreateUser(u *models.User) error
	UserByID(id uint) (*models.User, error)
	UserByUsername(username string) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
}

type Service struct {
	users  UserStore
	tokens *TokenManager
	log    logrus.FieldLogger
}

func NewService(users UserStore, tokens *TokenManager, log logrus.FieldLogger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a non-admin user. Username is checked before email.
func (s *Service) Register(username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperr.Validation("Faltan datos requeridos")
	}

	if _, err := s.users.UserByUsername(username); err == nil {
		return nil, apperr.Conflict("El nombre de usuario ya existe")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, apperr.Internal("Error al registrar usuario", err)
	}
	if _, err := s.users.UserByEmail(email); err == nil {
		return nil, apperr.Conflict("El email ya está registrado")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, apperr.Internal("Error al registrar usuario", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("Error al registrar usuario", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hashed}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Conflict("El nombre de usuario o email ya existe")
		}
		return nil, apperr.Internal("Error al registrar usuario", err)
	}
	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *Service) Login(username, password string) (string, models.PublicUser, error) {
	if username == "" || password == "" {
		return "", models.PublicUser{}, apperr.Validation("Faltan datos requeridos")
	}

	user, err := s.users.UserByUsername(username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", models.PublicUser{}, apperr.Auth("Credenciales inválidas")
		}
		return "", models.PublicUser{}, apperr.Internal("Error al iniciar sesión", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return "", models.PublicUser{}, apperr.Auth("Credenciales inválidas")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", models.PublicUser{}, apperr.Internal("Error al generar el token", err)
	}
	return token, user.Public(), nil
}

// Authenticate resolves a bearer token to the user id it was issued for.
func (s *Service) Authenticate(token string) (uint, error) {
	if token == "" {
		return 0, apperr.Auth("Token de autorización requerido")
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return 0, apperr.Auth("Token inválido o expirado")
	}
	return id, nil
}

// CurrentUser loads the user behind an authenticated id. A token for a
// user that no longer exists is treated as unauthenticated.
func (s *Service) CurrentUser(id uint) (*models.User, error) {
	user, err := s.users.UserByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.Auth("Usuario no encontrado")
		}
		return nil, apperr.Internal("Error al cargar el usuario", err)
	}
	return user, nil
}
