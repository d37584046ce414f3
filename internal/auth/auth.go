package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rfagundes/quality-control/internal/metrics"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password is too short")
	ErrInvalidRole        = errors.New("invalid role")
	ErrProtectedUser      = errors.New("bootstrap administrator cannot be deleted")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessDenied       = errors.New("access denied")
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 4

// User is an account record. The password hash never leaves this
// package in plaintext-comparable form.
type User struct {
	Username     string     `json:"-"`
	PasswordHash string     `json:"senha"`
	DisplayName  string     `json:"nome_completo"`
	Role         Role       `json:"nivel"`
	Active       bool       `json:"ativo"`
	CreatedAt    time.Time  `json:"data_criacao"`
	LastLogin    *time.Time `json:"ultimo_login"`
}

// Auditor receives security-relevant events. Satisfied by audit.Trail.
type Auditor interface {
	Record(username, action, detail string)
}

// Service manages user accounts and permission checks. Users are
// persisted as a single JSON object keyed by username, matching the
// legacy document layout.
type Service struct {
	path      string
	bootstrap string
	auditor   Auditor
	log       *zap.Logger

	mu    sync.Mutex
	users map[string]*User
	now   func() time.Time
}

// NewService loads the users document and seeds the bootstrap
// administrator account when no users exist yet.
func NewService(path, bootstrapUser, bootstrapPassword string, auditor Auditor, log *zap.Logger) (*Service, error) {
	s := &Service{
		path:      path,
		bootstrap: bootstrapUser,
		auditor:   auditor,
		log:       log,
		users:     make(map[string]*User),
		now:       time.Now,
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run.
	case err != nil:
		log.Warn("users document unreadable, starting empty",
			zap.String("path", path), zap.Error(err))
	default:
		if err := json.Unmarshal(data, &s.users); err != nil {
			log.Warn("users document corrupt, starting empty",
				zap.String("path", path), zap.Error(err))
			s.users = make(map[string]*User)
		}
	}
	for username, u := range s.users {
		u.Username = username
	}

	if len(s.users) == 0 {
		if err := s.seedBootstrap(bootstrapPassword); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Service) seedBootstrap(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	s.users[s.bootstrap] = &User{
		Username:     s.bootstrap,
		PasswordHash: string(hash),
		DisplayName:  "System Administrator",
		Role:         RoleAdministrator,
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.saveLocked(); err != nil {
		return err
	}

	s.log.Info("bootstrap administrator created", zap.String("username", s.bootstrap))
	s.auditor.Record(s.bootstrap, "USER_CREATED", "bootstrap administrator account")
	return nil
}

// Authenticate verifies credentials. It fails closed: an inactive
// account or a hash mismatch both return ErrInvalidCredentials. Every
// attempt, successful or not, is audited.
func (s *Service) Authenticate(username, password string) (*User, error) {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok || !u.Active {
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		s.auditor.Record(username, "LOGIN_FAILED", "unknown or inactive user")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		s.auditor.Record(username, "LOGIN_FAILED", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	lastLogin := s.now()
	u.LastLogin = &lastLogin
	if err := s.saveLocked(); err != nil {
		s.log.Warn("persist last login failed", zap.Error(err))
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	s.auditor.Record(username, "LOGIN", "login successful")
	return u.clone(), nil
}

// Authorize checks that the user holds at least the required role. A
// denial is audited and returned as ErrAccessDenied; it is never fatal.
// The check is synchronous and cheap so callers can run it per action.
func (s *Service) Authorize(user *User, required Role) error {
	if user != nil && user.Role.AtLeast(required) {
		return nil
	}

	username := ""
	if user != nil {
		username = user.Username
	}
	metrics.AccessDeniedTotal.Inc()
	s.auditor.Record(username, "ACCESS_DENIED",
		fmt.Sprintf("required role: %s", required))
	return fmt.Errorf("%w: requires %s", ErrAccessDenied, required)
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *Service) CreateUser(username, password, displayName string, role Role) error {
	username = strings.TrimSpace(username)

	if !role.Valid() {
		return ErrInvalidRole
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.users[username] = &User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.saveLocked(); err != nil {
		delete(s.users, username)
		return err
	}

	s.auditor.Record(username, "USER_CREATED", fmt.Sprintf("role: %s", role))
	return nil
}

// EditUser updates an account, optionally renaming it. Renaming to a
// taken username fails with ErrUserExists; the bootstrap administrator
// may be deactivated but keeps its name.
func (s *Service) EditUser(username, newUsername, displayName string, role Role, active bool) error {
	username = strings.TrimSpace(username)
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		newUsername = username
	}

	if !role.Valid() {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if username == s.bootstrap && newUsername != username {
		return ErrProtectedUser
	}
	if newUsername != username {
		if _, taken := s.users[newUsername]; taken {
			return fmt.Errorf("%w: %s", ErrUserExists, newUsername)
		}
	}

	snapshot := u.clone()
	delete(s.users, username)
	u.Username = newUsername
	u.DisplayName = displayName
	u.Role = role
	u.Active = active
	s.users[newUsername] = u

	if err := s.saveLocked(); err != nil {
		delete(s.users, newUsername)
		*u = *snapshot
		s.users[username] = u
		return err
	}

	s.auditor.Record(newUsername, "USER_EDITED",
		fmt.Sprintf("was: %s, role: %s, active: %t", username, role, active))
	return nil
}

// ResetPassword replaces a user's password hash.
func (s *Service) ResetPassword(username, newPassword string) error {
	username = strings.TrimSpace(username)
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	previousHash := u.PasswordHash
	u.PasswordHash = string(hash)
	if err := s.saveLocked(); err != nil {
		u.PasswordHash = previousHash
		return err
	}

	s.auditor.Record(username, "PASSWORD_RESET", "")
	return nil
}

// DeleteUser removes an account. The bootstrap administrator can be
// deactivated through EditUser but never deleted.
func (s *Service) DeleteUser(username string) error {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if username == s.bootstrap {
		return ErrProtectedUser
	}

	delete(s.users, username)
	if err := s.saveLocked(); err != nil {
		s.users[username] = u
		return err
	}

	s.auditor.Record(username, "USER_DELETED", "")
	return nil
}

// ListUsers returns all accounts sorted by username, without hashes.
func (s *Service) ListUsers() []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u.clone()
		copied.PasswordHash = ""
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "users.tmp-*")
	if err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist users: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

func (u *User) clone() *User {
	out := *u
	if u.LastLogin != nil {
		lastLogin := *u.LastLogin
		out.LastLogin = &lastLogin
	}
	return &out
}
