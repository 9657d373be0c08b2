package jersey

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Prediction is one backend's reading of an image. Fields are parallel
// sequences, one entry per detected player; a nil entry is a JSON null.
type Prediction struct {
	Number     []*int     `json:"number"`
	LastName   []*string  `json:"last_name"`
	Color      []*string  `json:"color"`
	Confidence []*float64 `json:"confidence"`

	// RawText is the backend output the record was decoded from, if any.
	RawText string `json:"-"`
}

// Numbers returns the non-null jersey numbers in order.
func (p Prediction) Numbers() []int {
	out := make([]int, 0, len(p.Number))
	for _, n := range p.Number {
		if n != nil {
			out = append(out, *n)
		}
	}
	return out
}

func (p Prediction) clone() Prediction {
	p.Number = slices.Clone(p.Number)
	p.LastName = slices.Clone(p.LastName)
	p.Color = slices.Clone(p.Color)
	p.Confidence = slices.Clone(p.Confidence)
	return p
}

// DecodePrediction parses a JSON object into a Prediction. Each field may
// be a scalar (single-subject backends) or an array; scalars become
// one-element sequences and a top-level null becomes an empty one.
// Numbers given as integral JSON numbers or as digit strings are accepted;
// anything else in the number field decodes to null. The number key is
// required.
func DecodePrediction(data []byte) (Prediction, error) {
	var obj structpb.Struct
	if err := protojson.Unmarshal(data, &obj); err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrMalformedPrediction, err)
	}

	fields := obj.GetFields()
	if _, ok := fields["number"]; !ok {
		return Prediction{}, fmt.Errorf("%w: missing number field", ErrMalformedPrediction)
	}

	return Prediction{
		Number:     decodeField(fields["number"], intValue),
		LastName:   decodeField(fields["last_name"], stringValue),
		Color:      decodeField(fields["color"], stringValue),
		Confidence: decodeField(fields["confidence"], floatValue),
		RawText:    string(data),
	}, nil
}

// ParsePrediction isolates the first object in free text and decodes it.
func ParsePrediction(text string, extract func(string) (string, error)) (Prediction, error) {
	if extract == nil {
		extract = ExtractJSONObject
	}
	obj, err := extract(text)
	if err != nil {
		return Prediction{}, err
	}
	p, err := DecodePrediction([]byte(obj))
	if err != nil {
		return Prediction{}, err
	}
	p.RawText = text
	return p, nil
}

func decodeField[T any](v *structpb.Value, conv func(*structpb.Value) *T) []*T {
	if v == nil {
		return nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		out := make([]*T, len(values))
		for i, item := range values {
			out[i] = conv(item)
		}
		return out
	default:
		return []*T{conv(v)}
	}
}

func intValue(v *structpb.Value) *int {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil
		}
		n := int(f)
		return &n
	case *structpb.Value_StringValue:
		s := strings.TrimSpace(k.StringValue)
		if s == "" || !isDigits(s) {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

func stringValue(v *structpb.Value) *string {
	if k, ok := v.GetKind().(*structpb.Value_StringValue); ok {
		s := k.StringValue
		return &s
	}
	return nil
}

func floatValue(v *structpb.Value) *float64 {
	if k, ok := v.GetKind().(*structpb.Value_NumberValue); ok {
		f := k.NumberValue
		return &f
	}
	return nil
}
