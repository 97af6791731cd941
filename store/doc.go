// Package store provides a generic DynamoDB key/attribute adapter for the
// packer tool.
//
// The adapter exposes four operations over raw attribute-value records:
// point reads, conditional attribute patches, paginated scans, and paginated
// index queries. No workflow logic lives here; higher layers decode records
// into typed entities and decide what a failed condition means.
//
// # Errors
//
//   - [ErrNotFound] - record absent for the given key
//   - [ErrConditionFailed] - a conditional patch lost an optimistic guard;
//     callers should re-read and retry
//   - [ErrUnavailable] - the store kept failing transiently after the
//     configured retry budget; treated as systemic by bulk callers
//
// # Pagination
//
// Scan and QueryByIndex return an opaque [PageToken] (the table's
// LastEvaluatedKey). A nil token means the traversal is complete. Tokens are
// only meaningful within the process that obtained them; there is no
// cross-session snapshot guarantee.
//
// # Numbers
//
// Records carry DynamoDB numbers as exact decimal strings. [DecodeJSON]
// converts a record to JSON-safe types using json.Number, so count and
// monetary fields never pass through a float.
package store
