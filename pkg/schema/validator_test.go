package schema

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		valid   bool
		wantErr error
	}{
		{
			name:  "object schema",
			data:  `{"type": "object", "properties": {"replicas": {"type": "integer"}}}`,
			valid: true,
		},
		{
			name:  "boolean schema",
			data:  `true`,
			valid: true,
		},
		{
			name:    "empty document",
			data:    "   ",
			valid:   false,
			wantErr: ErrEmptySchema,
		},
		{
			name:    "malformed json",
			data:    `{"type": "object"`,
			valid:   false,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "invalid schema keyword value",
			data:    `{"type": 12}`,
			valid:   false,
			wantErr: ErrInvalidSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.data))

			if result.Valid != tt.valid {
				t.Fatalf("Validate() valid = %v, want %v (err: %v)", result.Valid, tt.valid, result.Error)
			}
			if tt.wantErr != nil && !errors.Is(result.Error, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", result.Error, tt.wantErr)
			}
		})
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	data := []byte(`{"type": "object", "required": ["name"]}`)

	first := Validate(data)
	second := Validate(data)

	if first.Valid != second.Valid {
		t.Errorf("Validate() not deterministic: %v vs %v", first.Valid, second.Valid)
	}
}
