package auth

// Role is a permission level. Roles form a total order used by
// Authorize: operator < supervisor < administrator.
type Role string

const (
	RoleOperator      Role = "operator"
	RoleSupervisor    Role = "supervisor"
	RoleAdministrator Role = "administrator"
)

var roleRanks = map[Role]int{
	RoleOperator:      0,
	RoleSupervisor:    1,
	RoleAdministrator: 2,
}

// Valid reports whether the role is one of the allowed levels.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the permission order. Unknown
// roles rank below operator so they never gain access by accident.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether the role grants the permissions of min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}
