package store

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DecodeJSON converts a record to JSON-safe Go values for display.
// Numbers come back as json.Number, keeping the store's exact decimal
// representation instead of rounding through float64.
func DecodeJSON(r Record) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = decodeAttr(v)
	}
	return out
}

func decodeAttr(v types.AttributeValue) any {
	switch av := v.(type) {
	case *types.AttributeValueMemberS:
		return av.Value
	case *types.AttributeValueMemberN:
		return json.Number(av.Value)
	case *types.AttributeValueMemberBOOL:
		return av.Value
	case *types.AttributeValueMemberNULL:
		return nil
	case *types.AttributeValueMemberL:
		list := make([]any, 0, len(av.Value))
		for _, e := range av.Value {
			list = append(list, decodeAttr(e))
		}
		return list
	case *types.AttributeValueMemberM:
		return DecodeJSON(Record(av.Value))
	case *types.AttributeValueMemberSS:
		list := make([]any, 0, len(av.Value))
		for _, s := range av.Value {
			list = append(list, s)
		}
		return list
	case *types.AttributeValueMemberNS:
		list := make([]any, 0, len(av.Value))
		for _, n := range av.Value {
			list = append(list, json.Number(n))
		}
		return list
	case *types.AttributeValueMemberB:
		return av.Value
	default:
		return nil
	}
}
