package dynamo

// DynamoDB attribute names used in update expressions across the repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldPasswordHash = "password_hash"
	fieldUpdatedAt    = "updated_at"
)

// Marker-row key prefixes backing the users table uniqueness constraint.
const (
	usernameKeyPrefix = "USERNAME#"
	emailKeyPrefix    = "EMAIL#"
)
