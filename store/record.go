package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// String returns the string attribute attr, or "" when absent or not a string.
func (r Record) String(attr string) string {
	if v, ok := r[attr].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// List returns the list attribute attr, or nil.
func (r Record) List(attr string) []types.AttributeValue {
	if v, ok := r[attr].(*types.AttributeValueMemberL); ok {
		return v.Value
	}
	return nil
}

// Map returns the map attribute attr, or nil.
func (r Record) Map(attr string) Record {
	if v, ok := r[attr].(*types.AttributeValueMemberM); ok {
		return Record(v.Value)
	}
	return nil
}

// S wraps a string as an attribute value.
func S(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}
