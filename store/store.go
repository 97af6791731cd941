package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/promodeagro/packer-cli/internal/backoff"
)

// Dynamo implements Adapter against a DynamoDB client.
type Dynamo struct {
	client *dynamodb.Client
	config Config
}

// New creates a new Dynamo adapter.
func New(client *dynamodb.Client, config Config) *Dynamo {
	config.validate()
	return &Dynamo{
		client: client,
		config: config,
	}
}

// Config returns the validated adapter configuration.
func (d *Dynamo) Config() Config {
	return d.config
}

// Get returns the record for key, or ErrNotFound.
func (d *Dynamo) Get(ctx context.Context, table string, key PK) (Record, error) {
	var out *dynamodb.GetItemOutput
	err := d.withRetry(ctx, func() error {
		var err error
		out, err = d.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(table),
			Key:       key,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	return Record(out.Item), nil
}

// Update applies patch to the record at key as a single UpdateItem call.
// The SET expression is built attribute by attribute; an optional optimistic
// guard becomes a condition expression, and a failed guard maps to
// ErrConditionFailed.
func (d *Dynamo) Update(ctx context.Context, table string, key PK, patch Patch) error {
	var setClauses []string
	exprNames := map[string]string{}
	exprValues := map[string]types.AttributeValue{}

	i := 0
	for k, v := range patch.Set {
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = k
		exprValues[valueKey] = v
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}
	if len(setClauses) == 0 {
		return nil
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          aws.String("SET " + joinStrings(setClauses, ", ")),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	}

	if c := patch.Condition; c != nil {
		exprNames["#cond"] = c.Attr
		if c.Equals == nil {
			input.ConditionExpression = aws.String("attribute_not_exists(#cond)")
		} else {
			exprValues[":cond"] = c.Equals
			input.ConditionExpression = aws.String("#cond = :cond")
		}
	}

	err := d.withRetry(ctx, func() error {
		_, err := d.client.UpdateItem(ctx, input)
		return err
	})

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrConditionFailed
	}
	return err
}

// Scan returns one page of a full-table traversal.
func (d *Dynamo) Scan(ctx context.Context, table string, token PageToken, limit int32) (Page, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(table),
	}
	if token != nil {
		input.ExclusiveStartKey = token
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	var out *dynamodb.ScanOutput
	err := d.withRetry(ctx, func() error {
		var err error
		out, err = d.client.Scan(ctx, input)
		return err
	})
	if err != nil {
		return Page{}, err
	}
	return page(out.Items, out.LastEvaluatedKey), nil
}

// QueryByIndex returns one page of an index traversal.
func (d *Dynamo) QueryByIndex(ctx context.Context, in QueryInput) (Page, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(in.Table),
		IndexName:              aws.String(in.Index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": in.KeyAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: in.KeyValue},
		},
		ScanIndexForward: aws.Bool(in.Forward),
	}
	if in.Token != nil {
		input.ExclusiveStartKey = in.Token
	}
	if in.Limit > 0 {
		input.Limit = aws.Int32(in.Limit)
	}

	var out *dynamodb.QueryOutput
	err := d.withRetry(ctx, func() error {
		var err error
		out, err = d.client.Query(ctx, input)
		return err
	})
	if err != nil {
		return Page{}, err
	}
	return page(out.Items, out.LastEvaluatedKey), nil
}

func page(items []map[string]types.AttributeValue, last map[string]types.AttributeValue) Page {
	p := Page{}
	for _, raw := range items {
		p.Records = append(p.Records, Record(raw))
	}
	if last != nil {
		p.Next = PageToken(last)
	}
	return p
}

// withRetry runs call up to the configured attempt budget, backing off
// between transient failures. A budget spent on transient errors surfaces
// as ErrUnavailable; everything else returns unmodified on first failure.
func (d *Dynamo) withRetry(ctx context.Context, call func() error) error {
	var err error
	for attempt := 0; attempt < d.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			if werr := backoff.Sleep(ctx, attempt-1, d.config.RetryBase); werr != nil {
				return werr
			}
		}
		err = call()
		if err == nil || !retryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w (last error after %d attempts: %v)", ErrUnavailable, d.config.MaxAttempts, err)
}

// retryable reports whether err is a transient store fault worth another
// attempt. Conditional failures and other client faults are not.
func retryable(err error) bool {
	var thr *types.ProvisionedThroughputExceededException
	if errors.As(err, &thr) {
		return true
	}
	var lim *types.RequestLimitExceeded
	if errors.As(err, &lim) {
		return true
	}
	var api smithy.APIError
	if errors.As(err, &api) {
		switch api.ErrorCode() {
		case "ThrottlingException", "ServiceUnavailable", "InternalServerError":
			return true
		}
		return api.ErrorFault() == smithy.FaultServer
	}
	return false
}

// joinStrings joins strings with a separator (avoiding strings package import).
func joinStrings(strs []string, sep string) string {
	if len(strs) == 0 {
		return ""
	}
	result := strs[0]
	for _, s := range strs[1:] {
		result += sep + s
	}
	return result
}
