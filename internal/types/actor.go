// Package types contains the shared domain types used across the API
// surface: caller identity, request/response DTOs, and the error
// taxonomy returned by the services.
package types

// Role identifies which side of the marketplace an actor is on.
type Role string

const (
	// RoleClient is an actor who posts jobs and hires.
	RoleClient Role = "client"
	// RoleWorker is an actor who applies for and performs jobs.
	RoleWorker Role = "worker"
	// RoleAdmin is a platform operator.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated identity attached to every request by the
// upstream identity provider. The core trusts these fields as-is.
type Actor struct {
	ID       uint `json:"id"`
	Role     Role `json:"role"`
	Verified bool `json:"verified"`
	Blocked  bool `json:"blocked"`
}

// IsClient reports whether the actor acts as a client.
func (a Actor) IsClient() bool { return a.Role == RoleClient }

// IsWorker reports whether the actor acts as a worker.
func (a Actor) IsWorker() bool { return a.Role == RoleWorker }

// IsAdmin reports whether the actor is a platform operator.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
