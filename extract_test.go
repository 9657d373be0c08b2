package jersey

import (
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "wrapped in prose",
			input: `noise {"a":1,"b":{"c":2}} trailing`,
			want:  `{"a":1,"b":{"c":2}}`,
		},
		{
			name:  "first of two objects",
			input: `{"a":1} {"b":2}`,
			want:  `{"a":1}`,
		},
		{
			name:  "markdown fence",
			input: "```json\n{\"number\": [8]}\n```",
			want:  `{"number": [8]}`,
		},
		{
			name:    "no braces",
			input:   "no braces here",
			wantErr: ErrNoObject,
		},
		{
			name:    "unbalanced",
			input:   `result: {"a": {"b": 1}`,
			wantErr: ErrUnbalancedBraces,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrNoObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrExtraction) {
					t.Errorf("error %v does not match ErrExtraction", err)
				}
				var ee *ExtractionError
				if !errors.As(err, &ee) || ee.Text != tt.input {
					t.Errorf("expected *ExtractionError carrying the input, got %#v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONObject_BraceInString(t *testing.T) {
	input := `{"last_name": "SMITH}", "number": [3]}`

	// The plain scanner closes early on the brace inside the string.
	got, err := ExtractJSONObject(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"last_name": "SMITH}` {
		t.Errorf("got %q", got)
	}

	got, err = ExtractJSONObjectQuoted(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("quoted got %q, want %q", got, input)
	}
}

func TestExtractJSONObjectQuoted(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"same as plain", `noise {"a":1,"b":{"c":2}} trailing`, `{"a":1,"b":{"c":2}}`, nil},
		{"escaped quote", `x {"s":"a\"}b","n":1} y`, `{"s":"a\"}b","n":1}`, nil},
		{"escaped backslash", `{"s":"a\\"} z`, `{"s":"a\\"}`, nil},
		{"open brace in string", `{"s":"{{{"}`, `{"s":"{{{"}`, nil},
		{"no object", "plain text", "", ErrNoObject},
		{"unterminated string", `{"s":"}`, "", ErrUnbalancedBraces},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObjectQuoted(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
