package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"

	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	commonErrors "github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/platform/dynamodb/client"
)

const (
	accountPrefix = "ACCOUNT#"
	accountType   = "account"
	queryPageSize = 100
)

var _ account.Repository = (*DynamoDBAccountRepository)(nil)

// DynamoDBAccountRepository implements the account.Repository interface
type DynamoDBAccountRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBAccountRepository creates a new DynamoDBAccountRepository
func NewDynamoDBAccountRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBAccountRepository {
	return &DynamoDBAccountRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func bookPK(bookID string) string {
	return fmt.Sprintf("BOOK#%s", bookID)
}

// CreateAccount stores an account record. Record ids are ULIDs, so sort key order is
// creation order.
func (r *DynamoDBAccountRepository) CreateAccount(ctx context.Context, bookID string, acc *account.Account) (*account.Account, error) {
	stored := *acc
	stored.BookID = bookID
	if stored.RecordID == "" {
		stored.RecordID = ulid.Make().String()
	}

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal account", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: accountPrefix + stored.RecordID}
	item["Type"] = &types.AttributeValueMemberS{Value: accountType}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return nil, commonErrors.NewConflictError("account record already exists")
		}
		return nil, commonErrors.NewInternalError("failed to create account", err)
	}

	r.logger.Info("account created", "bookId", bookID, "account", stored.Code, "recordId", stored.RecordID)
	return &stored, nil
}

// GetAccounts retrieves every account record of a book, following pagination until
// the partition is exhausted.
func (r *DynamoDBAccountRepository) GetAccounts(ctx context.Context, bookID string) ([]*account.Account, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(bookPK(bookID))).
		And(expression.Key("SK").BeginsWith(accountPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	accounts := make([]*account.Account, 0)
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(r.table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(true),
			Limit:                     aws.Int32(queryPageSize),
		}
		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to query accounts", err)
		}

		var page []*account.Account
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, commonErrors.NewInternalError("failed to unmarshal accounts", err)
		}
		accounts = append(accounts, page...)

		lastEvaluatedKey = result.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			break
		}
	}

	return accounts, nil
}
