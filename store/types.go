package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Record is a raw DynamoDB item.
type Record map[string]types.AttributeValue

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// PageToken resumes a paginated traversal. A nil token starts from the
// beginning (as an input) or marks the end of results (as an output).
type PageToken map[string]types.AttributeValue

// Page is one page of a paginated traversal.
type Page struct {
	Records []Record

	// Next resumes the traversal, nil when exhausted.
	Next PageToken
}

// Condition is an attribute-level optimistic guard for Update.
type Condition struct {
	// Attr is the attribute the guard inspects.
	Attr string

	// Equals is the value the attribute must currently hold.
	// Nil requires the attribute to be absent instead.
	Equals types.AttributeValue
}

// Patch is a set of attribute writes applied as a single-document update.
type Patch struct {
	// Set maps attribute names to their new values.
	Set Record

	// Condition, when non-nil, must hold for the patch to apply.
	// A failed guard surfaces as ErrConditionFailed.
	Condition *Condition
}

// QueryInput defines parameters for querying an index.
type QueryInput struct {
	// Table is the DynamoDB table to query.
	Table string

	// Index is the GSI to query.
	Index string

	// KeyAttr is the index partition key attribute name.
	KeyAttr string

	// KeyValue is the partition key value to match.
	KeyValue string

	// Token resumes a previous traversal (nil = first page).
	Token PageToken

	// Limit is the maximum number of records per page (0 = store default).
	Limit int32

	// Forward determines sort order (false = newest first on
	// created-at range keys, matching operator browsing).
	Forward bool
}

// Adapter is the generic interface to the document store. The DynamoDB
// implementation is [Dynamo]; tests substitute an in-memory fake.
type Adapter interface {
	// Get returns the record for key, or ErrNotFound.
	Get(ctx context.Context, table string, key PK) (Record, error)

	// Update applies patch to the record at key. A failed optimistic
	// guard returns ErrConditionFailed.
	Update(ctx context.Context, table string, key PK, patch Patch) error

	// Scan returns one page of a full-table traversal.
	Scan(ctx context.Context, table string, token PageToken, limit int32) (Page, error)

	// QueryByIndex returns one page of an index traversal.
	QueryByIndex(ctx context.Context, in QueryInput) (Page, error)
}
