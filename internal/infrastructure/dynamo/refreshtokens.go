package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/auth-api-nosql/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RefreshTokenRepo is the durable refresh-token registry: one row per valid
// token, keyed by the token string. Validity and revocation survive restarts
// and are shared across instances. Expired rows are reaped by DynamoDB TTL.
type RefreshTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRefreshTokenRepo(client *dynamodb.Client, tableName string) *RefreshTokenRepo {
	return &RefreshTokenRepo{client: client, tableName: tableName}
}

// Register adds the token to the valid set. Re-registering an already-present
// token overwrites the identical row, so the operation keeps set semantics.
func (r *RefreshTokenRepo) Register(ctx context.Context, rec *domain.RefreshTokenRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal refresh token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// IsValid reports whether the token is registered and unexpired. TTL deletion
// lags, so the expiry is rechecked here.
func (r *RefreshTokenRepo) IsValid(ctx context.Context, token string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token", token),
	})
	if err != nil {
		return false, err
	}
	if out.Item == nil {
		return false, nil
	}
	var rec domain.RefreshTokenRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return false, err
	}
	return rec.ExpiresAt > time.Now().Unix(), nil
}

// Revoke removes the token from the valid set. Deleting an absent token is a
// no-op, so revocation is idempotent.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, token string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token", token),
	})
	return err
}

// RevokeAllForUser removes every registered token belonging to the user.
func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return err
	}
	var firstErr error
	for _, item := range out.Items {
		tok, ok := item["token"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if err := r.Revoke(ctx, tok.Value); err != nil {
			slog.Warn("failed to revoke refresh token", "user_id", userID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
