package domain

// PasswordReset is the pending-reset sub-record for a user. Keeping the code
// and expiry together in their own item means they are always both present or
// both absent. At most one pending reset exists per user; reissuing overwrites.
type PasswordReset struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
