package repository

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TestClient is an in-memory implementation of the DynamoDB client interface for testing.
// Query understands the two key shapes the repositories build: PK equality with an SK
// prefix on the table, and GSI1PK equality on GSI1.
type TestClient struct {
	items   map[string]map[string]types.AttributeValue
	queries []*dynamodb.QueryInput
}

// NewTestClient creates a new test client with an empty items map
func NewTestClient() *TestClient {
	return &TestClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func attrString(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// PutItem adds or updates an item in the in-memory store
func (c *TestClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	key := attrString(params.Item, "PK") + "|" + attrString(params.Item, "SK")

	if aws.ToString(params.ConditionExpression) == "attribute_not_exists(PK)" {
		if _, exists := c.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("Item already exists")}
		}
	}

	c.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

// Query returns matching items ordered by sort key, honouring Limit and ExclusiveStartKey
func (c *TestClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	c.queries = append(c.queries, params)

	var values []string
	for _, v := range params.ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			values = append(values, s.Value)
		}
	}

	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var matched []map[string]types.AttributeValue
	if aws.ToString(params.IndexName) == "GSI1" {
		for _, key := range keys {
			item := c.items[key]
			for _, v := range values {
				if attrString(item, "GSI1PK") == v {
					matched = append(matched, item)
					break
				}
			}
		}
	} else {
		var pk, prefix string
		for _, v := range values {
			if strings.HasPrefix(v, "BOOK#") {
				pk = v
			} else {
				prefix = v
			}
		}
		for _, key := range keys {
			item := c.items[key]
			if attrString(item, "PK") == pk && strings.HasPrefix(attrString(item, "SK"), prefix) {
				matched = append(matched, item)
			}
		}
	}

	if params.ExclusiveStartKey != nil {
		start := attrString(params.ExclusiveStartKey, "SK")
		remaining := matched[:0:0]
		for _, item := range matched {
			if attrString(item, "SK") > start {
				remaining = append(remaining, item)
			}
		}
		matched = remaining
	}

	out := &dynamodb.QueryOutput{}
	if params.Limit != nil && len(matched) > int(*params.Limit) {
		matched = matched[:*params.Limit]
		last := matched[len(matched)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": last["PK"],
			"SK": last["SK"],
		}
	}
	out.Items = matched
	out.Count = int32(len(matched))
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
