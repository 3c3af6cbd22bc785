package domain

// RefreshTokenRecord is a registry entry for a currently valid refresh token.
// PK: token. A token is valid while its record exists and is unexpired;
// revocation deletes the record. ExpiresAt doubles as DynamoDB TTL so expired
// entries are reaped without a sweeper.
type RefreshTokenRecord struct {
	Token     string `json:"token" dynamodbav:"token"`
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
