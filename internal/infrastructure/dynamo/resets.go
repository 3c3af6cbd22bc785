package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/auth-api-nosql/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ResetRepo manages pending password-reset records. PK: user_id, so a user
// has at most one pending code; reissuing replaces it.
type ResetRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewResetRepo(client *dynamodb.Client, tableName string) *ResetRepo {
	return &ResetRepo{client: client, tableName: tableName}
}

func (r *ResetRepo) Put(ctx context.Context, pr *domain.PasswordReset) error {
	item, err := attributevalue.MarshalMap(pr)
	if err != nil {
		return fmt.Errorf("marshal password reset: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Consume deletes the pending reset iff the supplied code matches and the
// record is unexpired, in a single conditional write. Concurrent confirmations
// with the same code cannot both succeed, and a consumed code cannot be
// replayed. A mismatch, an expired code and a missing record are all reported
// as the same domain.ErrBadRequest.
func (r *ResetRepo) Consume(ctx context.Context, userID, code string, now int64) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("user_id", userID),
		ConditionExpression: aws.String("code = :c AND expires_at > :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c":   &types.AttributeValueMemberS{Value: code},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now, 10)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("invalid or expired code: %w", domain.ErrBadRequest)
		}
		return err
	}
	return nil
}
