package domain

// Role names mirror the web application's identity roles.
const (
	RoleAdministrator = "administrator"
	RoleSupervisor    = "supervisor"
	RoleAdvisor       = "collection_advisor"
	RoleClient        = "client"
)

type User struct {
	ID       int64
	Username string
	FullName string
	Email    *string
	Role     string
}
