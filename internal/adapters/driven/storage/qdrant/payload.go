package qdrant

import (
	"fmt"
	"sort"

	qpb "github.com/qdrant/go-client/qdrant"
)

// Payload keys.
const (
	payloadID       = "id"
	payloadContent  = "content"
	payloadMetadata = "metadata"
	payloadPosition = "position"
)

// toValue converts a Go value into a payload value. Unknown types are
// stored as their string form.
func toValue(v any) *qpb.Value {
	switch x := v.(type) {
	case nil:
		return &qpb.Value{Kind: &qpb.Value_NullValue{NullValue: qpb.NullValue_NULL_VALUE}}
	case string:
		return &qpb.Value{Kind: &qpb.Value_StringValue{StringValue: x}}
	case bool:
		return &qpb.Value{Kind: &qpb.Value_BoolValue{BoolValue: x}}
	case int:
		return &qpb.Value{Kind: &qpb.Value_IntegerValue{IntegerValue: int64(x)}}
	case int64:
		return &qpb.Value{Kind: &qpb.Value_IntegerValue{IntegerValue: x}}
	case float32:
		return &qpb.Value{Kind: &qpb.Value_DoubleValue{DoubleValue: float64(x)}}
	case float64:
		return &qpb.Value{Kind: &qpb.Value_DoubleValue{DoubleValue: x}}
	case []string:
		list := &qpb.ListValue{}
		for _, item := range x {
			list.Values = append(list.Values, toValue(item))
		}
		return &qpb.Value{Kind: &qpb.Value_ListValue{ListValue: list}}
	case []any:
		list := &qpb.ListValue{}
		for _, item := range x {
			list.Values = append(list.Values, toValue(item))
		}
		return &qpb.Value{Kind: &qpb.Value_ListValue{ListValue: list}}
	case map[string]any:
		return &qpb.Value{Kind: &qpb.Value_StructValue{StructValue: &qpb.Struct{Fields: toFields(x)}}}
	default:
		return &qpb.Value{Kind: &qpb.Value_StringValue{StringValue: fmt.Sprint(x)}}
	}
}

func toFields(m map[string]any) map[string]*qpb.Value {
	out := make(map[string]*qpb.Value, len(m))
	for k, v := range m {
		out[k] = toValue(v)
	}
	return out
}

// fromValue converts a payload value back into a Go value. Integers come
// back as int64, lists as []any and structs as map[string]any.
func fromValue(v *qpb.Value) any {
	switch x := v.GetKind().(type) {
	case *qpb.Value_StringValue:
		return x.StringValue
	case *qpb.Value_BoolValue:
		return x.BoolValue
	case *qpb.Value_IntegerValue:
		return x.IntegerValue
	case *qpb.Value_DoubleValue:
		return x.DoubleValue
	case *qpb.Value_ListValue:
		out := make([]any, 0, len(x.ListValue.GetValues()))
		for _, item := range x.ListValue.GetValues() {
			out = append(out, fromValue(item))
		}
		return out
	case *qpb.Value_StructValue:
		return fromFields(x.StructValue.GetFields())
	default:
		return nil
	}
}

func fromFields(fields map[string]*qpb.Value) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = fromValue(v)
	}
	return out
}

// storedPoint is the decoded payload of one point.
type storedPoint struct {
	id       string
	content  string
	metadata map[string]any
	position int64
	vector   []float32
}

func decodePoint(payload map[string]*qpb.Value, vector []float32) storedPoint {
	return storedPoint{
		id:       payload[payloadID].GetStringValue(),
		content:  payload[payloadContent].GetStringValue(),
		metadata: fromFields(payload[payloadMetadata].GetStructValue().GetFields()),
		position: payload[payloadPosition].GetIntegerValue(),
		vector:   vector,
	}
}

// sortByPosition orders points by insertion position, then by ID.
func sortByPosition(points []storedPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].position != points[j].position {
			return points[i].position < points[j].position
		}
		return points[i].id < points[j].id
	})
}
