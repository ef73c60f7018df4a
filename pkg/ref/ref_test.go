package ref

import (
	"errors"
	"testing"

	"github.com/rashadism/choreosync/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Ref
		wantErr  bool
		wantKind bool
	}{
		{
			name:  "namespace scoped",
			input: "Component:acme/checkout",
			want:  Ref{Kind: "Component", Namespace: "acme", Name: "checkout"},
		},
		{
			name:  "cluster scoped",
			input: "ClusterTrait:cluster/sidecar",
			want:  Ref{Kind: "ClusterTrait", Namespace: "cluster", Name: "sidecar"},
		},
		{
			name:    "missing kind separator",
			input:   "acme/checkout",
			wantErr: true,
		},
		{
			name:    "missing namespace separator",
			input:   "Component:checkout",
			wantErr: true,
		},
		{
			name:    "empty kind",
			input:   ":acme/checkout",
			wantErr: true,
		},
		{
			name:    "empty name",
			input:   "Component:acme/",
			wantErr: true,
		},
		{
			name:     "unknown kind",
			input:    "Widget:acme/checkout",
			wantErr:  true,
			wantKind: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error but got nil", tt.input)
				}
				if tt.wantKind {
					if !errors.Is(err, models.ErrInvalidKind) {
						t.Errorf("Parse(%q) error = %v, want ErrInvalidKind", tt.input, err)
					}
				} else if !errors.Is(err, models.ErrInvalidRef) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidRef", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) unexpected error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	entity := models.Entity{
		Kind:      models.KindEnvironment,
		Namespace: "acme",
		Name:      "staging",
	}

	formatted := ForEntity(entity).String()
	if formatted != entity.Ref() {
		t.Errorf("ForEntity().String() = %q, want %q", formatted, entity.Ref())
	}

	parsed, err := Parse(formatted)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error = %v", formatted, err)
	}
	if parsed.Name != entity.Name || parsed.Namespace != entity.Namespace || parsed.Kind != entity.Kind {
		t.Errorf("round trip mismatch: got %+v", parsed)
	}
}
