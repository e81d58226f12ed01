package globals

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const UsernameKey ContextKey = "username"
const RoleKey ContextKey = "role"
