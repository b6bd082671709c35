package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"

	commonErrors "github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
	"github.com/hirosato/ledger-balance/backend/internal/platform/dynamodb/client"
)

const (
	journalEntryPrefix = "JOURNAL_ENTRY#"
	journalEntryType   = "journal_entry"
)

var _ journal.Repository = (*DynamoDBJournalRepository)(nil)

// DynamoDBJournalRepository implements the journal.Repository interface
type DynamoDBJournalRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBJournalRepository creates a new DynamoDBJournalRepository
func NewDynamoDBJournalRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBJournalRepository {
	return &DynamoDBJournalRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func journalEntryGSI1PK(bookID, journalEntryID string) string {
	return fmt.Sprintf("BOOK#%s#JOURNAL_ENTRY#%s", bookID, journalEntryID)
}

// CreateJournalEntry stores a journal entry with its lines embedded in one item
func (r *DynamoDBJournalRepository) CreateJournalEntry(
	ctx context.Context, req *journal.CreateJournalEntryRequest,
) (*journal.JournalEntry, error) {
	journalEntry := journal.JournalEntry{
		JournalEntryID: req.JournalEntryID,
		BookID:         req.BookID,
		Date:           req.Date,
		Description:    req.Description,
		Notes:          req.Notes,
		Tags:           req.Tags,
		Lines:          make([]journal.Entry, 0, len(req.Lines)),
	}

	// Generate ID if not provided
	if journalEntry.JournalEntryID == "" {
		journalEntry.JournalEntryID = ulid.Make().String()
	}
	now := time.Now().UTC()
	journalEntry.CreatedAt = now
	journalEntry.UpdatedAt = now

	for _, line := range req.Lines {
		journalEntry.Lines = append(journalEntry.Lines, journal.Entry{
			EntryID:     ulid.Make().String(),
			Account:     line.Account,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	journalEntryItem, err := attributevalue.MarshalMap(journalEntry)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal journal entry", err)
	}

	journalEntryItem["PK"] = &types.AttributeValueMemberS{Value: bookPK(req.BookID)}
	journalEntryItem["SK"] = &types.AttributeValueMemberS{Value: journalEntryPrefix + journalEntry.JournalEntryID}
	journalEntryItem["GSI1PK"] = &types.AttributeValueMemberS{Value: journalEntryGSI1PK(req.BookID, journalEntry.JournalEntryID)}
	journalEntryItem["GSI1SK"] = &types.AttributeValueMemberS{Value: "JOURNAL_ENTRY"}
	journalEntryItem["Type"] = &types.AttributeValueMemberS{Value: journalEntryType}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                journalEntryItem,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return nil, commonErrors.NewConflictError("journal entry already exists")
		}
		return nil, commonErrors.NewInternalError("failed to create journal entry", err)
	}

	r.logger.Info("journal entry created", "bookId", req.BookID, "journalEntryId", journalEntry.JournalEntryID, "lines", len(journalEntry.Lines))
	return &journalEntry, nil
}

// GetJournalEntry retrieves a journal entry with its lines by ID
func (r *DynamoDBJournalRepository) GetJournalEntry(ctx context.Context, bookID, journalEntryID string) (*journal.JournalEntry, error) {
	gsi1pk := journalEntryGSI1PK(bookID, journalEntryID)
	r.logger.Debug("GetJournalEntry", "gsi1pk", gsi1pk)

	keyCondition := expression.Key("GSI1PK").Equal(expression.Value(gsi1pk)).
		And(expression.Key("GSI1SK").Equal(expression.Value("JOURNAL_ENTRY")))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String("GSI1"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query journal entry", err)
	}

	if len(result.Items) == 0 {
		return nil, commonErrors.NewNotFoundError("journal entry not found")
	}

	var journalEntry journal.JournalEntry
	if err := attributevalue.UnmarshalMap(result.Items[0], &journalEntry); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal journal entry", err)
	}
	return &journalEntry, nil
}

// GetJournalEntries retrieves one page of a book's journal entries. The returned
// NextToken is an opaque encoding of DynamoDB's LastEvaluatedKey.
func (r *DynamoDBJournalRepository) GetJournalEntries(ctx context.Context, bookID string, filter *journal.GetJournalEntriesRequest) (*journal.GetJournalEntriesResponse, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(bookPK(bookID))).
		And(expression.Key("SK").BeginsWith(journalEntryPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	limit := filter.Count
	if limit == 0 || limit > 1000 {
		limit = journal.DefaultPageSize
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
		Limit:                     aws.Int32(int32(limit)),
	}

	if filter.NextToken != "" {
		startKey, err := decodeNextToken(filter.NextToken)
		if err != nil {
			return nil, commonErrors.NewInvalidInputError("invalid next token", err)
		}
		input.ExclusiveStartKey = startKey
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query journal entries", err)
	}

	journalEntries := make([]journal.JournalEntry, 0, len(result.Items))
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &journalEntries); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal journal entries", err)
	}

	response := &journal.GetJournalEntriesResponse{
		JournalEntries: journalEntries,
		TotalCount:     len(journalEntries),
	}
	if len(result.LastEvaluatedKey) > 0 {
		token, err := encodeNextToken(result.LastEvaluatedKey)
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to encode next token", err)
		}
		response.NextToken = token
	}
	return response, nil
}

func encodeNextToken(key map[string]types.AttributeValue) (string, error) {
	var plain map[string]string
	if err := attributevalue.UnmarshalMap(key, &plain); err != nil {
		return "", err
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

func decodeNextToken(token string) (map[string]types.AttributeValue, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var plain map[string]string
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	if len(plain) == 0 {
		return nil, errors.New("empty key")
	}
	return attributevalue.MarshalMap(plain)
}
