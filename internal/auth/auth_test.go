package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAuditor struct {
	events []string
}

func (r *recordingAuditor) Record(username, action, detail string) {
	r.events = append(r.events, action)
}

func newTestService(t *testing.T) (*Service, *recordingAuditor) {
	t.Helper()

	auditor := &recordingAuditor{}
	svc, err := NewService(filepath.Join(t.TempDir(), "usuarios.json"), "admin", "admin", auditor, zap.NewNop())
	require.NoError(t, err)
	return svc, auditor
}

func TestBootstrapAdministrator(t *testing.T) {
	t.Parallel()

	svc, auditor := newTestService(t)

	u, err := svc.Authenticate("admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdministrator, u.Role)
	assert.True(t, u.Active)
	assert.Contains(t, auditor.events, "USER_CREATED")
	assert.Contains(t, auditor.events, "LOGIN")
}

func TestAuthenticateFailsClosed(t *testing.T) {
	t.Parallel()

	svc, auditor := newTestService(t)

	_, err := svc.Authenticate("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "admin")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.CreateUser("inactive", "secret", "Inactive", RoleOperator))
	require.NoError(t, svc.EditUser("inactive", "", "Inactive", RoleOperator, false))
	_, err = svc.Authenticate("inactive", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Contains(t, auditor.events, "LOGIN_FAILED")
}

func TestAuthorizeRoleOrder(t *testing.T) {
	t.Parallel()

	svc, auditor := newTestService(t)

	operator := &User{Username: "op", Role: RoleOperator}
	supervisor := &User{Username: "sup", Role: RoleSupervisor}
	admin := &User{Username: "adm", Role: RoleAdministrator}

	assert.NoError(t, svc.Authorize(operator, RoleOperator))
	assert.ErrorIs(t, svc.Authorize(operator, RoleSupervisor), ErrAccessDenied)
	assert.ErrorIs(t, svc.Authorize(operator, RoleAdministrator), ErrAccessDenied)

	assert.NoError(t, svc.Authorize(supervisor, RoleOperator))
	assert.NoError(t, svc.Authorize(supervisor, RoleSupervisor))
	assert.ErrorIs(t, svc.Authorize(supervisor, RoleAdministrator), ErrAccessDenied)

	assert.NoError(t, svc.Authorize(admin, RoleOperator))
	assert.NoError(t, svc.Authorize(admin, RoleAdministrator))

	assert.ErrorIs(t, svc.Authorize(nil, RoleOperator), ErrAccessDenied)
	unknown := &User{Username: "x", Role: Role("root")}
	assert.ErrorIs(t, svc.Authorize(unknown, RoleOperator), ErrAccessDenied)

	assert.Contains(t, auditor.events, "ACCESS_DENIED")
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	require.NoError(t, svc.CreateUser("maria", "secret", "Maria", RoleSupervisor))

	u, err := svc.Authenticate("maria", "secret")
	require.NoError(t, err)
	assert.Equal(t, RoleSupervisor, u.Role)

	assert.ErrorIs(t, svc.CreateUser("maria", "other", "Maria", RoleOperator), ErrUserExists)
	assert.ErrorIs(t, svc.CreateUser("joao", "abc", "Joao", RoleOperator), ErrWeakPassword)
	assert.ErrorIs(t, svc.CreateUser("joao", "secret", "Joao", Role("root")), ErrInvalidRole)
}

func TestEditUserRename(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	require.NoError(t, svc.CreateUser("maria", "secret", "Maria", RoleOperator))
	require.NoError(t, svc.CreateUser("joao", "secret", "Joao", RoleOperator))

	require.NoError(t, svc.EditUser("maria", "maria.s", "Maria Silva", RoleSupervisor, true))

	u, err := svc.Authenticate("maria.s", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", u.DisplayName)
	assert.Equal(t, RoleSupervisor, u.Role)

	_, err = svc.Authenticate("maria", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, svc.EditUser("maria.s", "joao", "Maria", RoleOperator, true), ErrUserExists)
	assert.ErrorIs(t, svc.EditUser("ghost", "", "Ghost", RoleOperator, true), ErrUserNotFound)
}

func TestBootstrapProtection(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	assert.ErrorIs(t, svc.DeleteUser("admin"), ErrProtectedUser)
	assert.ErrorIs(t, svc.EditUser("admin", "root", "Admin", RoleAdministrator, true), ErrProtectedUser)

	// Deactivation is allowed, the name just cannot change.
	require.NoError(t, svc.EditUser("admin", "", "Admin", RoleAdministrator, false))
	_, err := svc.Authenticate("admin", "admin")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	require.NoError(t, svc.CreateUser("maria", "secret", "Maria", RoleOperator))
	require.NoError(t, svc.ResetPassword("maria", "newpass"))

	_, err := svc.Authenticate("maria", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("maria", "newpass")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword("maria", "abc"), ErrWeakPassword)
	assert.ErrorIs(t, svc.ResetPassword("ghost", "newpass"), ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	require.NoError(t, svc.CreateUser("maria", "secret", "Maria", RoleOperator))
	require.NoError(t, svc.DeleteUser("maria"))

	_, err := svc.Authenticate("maria", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, svc.DeleteUser("maria"), ErrUserNotFound)
}

func TestListUsersStripsHashes(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	require.NoError(t, svc.CreateUser("maria", "secret", "Maria", RoleOperator))

	users := svc.ListUsers()
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "maria", users[1].Username)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestFailedPersistKeepsPreviousUsers(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	// Point the users document into a directory that does not exist
	// so the write fails after the in-memory mutation.
	svc.path = filepath.Join(t.TempDir(), "missing", "usuarios.json")

	err := svc.CreateUser("maria", "secret", "Maria", RoleOperator)
	require.Error(t, err)

	_, err = svc.Authenticate("maria", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Len(t, svc.ListUsers(), 1)
}

func TestUsersSurviveRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "usuarios.json")

	svc, err := NewService(path, "admin", "admin", &recordingAuditor{}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, svc.CreateUser("maria", "secret", "Maria", RoleSupervisor))

	reloaded, err := NewService(path, "admin", "admin", &recordingAuditor{}, zap.NewNop())
	require.NoError(t, err)

	u, err := reloaded.Authenticate("maria", "secret")
	require.NoError(t, err)
	assert.Equal(t, RoleSupervisor, u.Role)
	// The bootstrap seed must not run again over existing users.
	assert.Len(t, reloaded.ListUsers(), 2)
}
