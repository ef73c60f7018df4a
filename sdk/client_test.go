package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:      serverURL,
		Token:        "test-token",
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() unexpected error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{
			name:   "valid config",
			config: ClientConfig{BaseURL: "https://api.choreo.example.com"},
		},
		{
			name:    "missing base URL",
			config:  ClientConfig{},
			wantErr: true,
		},
		{
			name:    "base URL without scheme",
			config:  ClientConfig{BaseURL: "api.choreo.example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewClient() expected error but got nil")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("NewClient() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() unexpected error = %v", err)
			}
			if client == nil {
				t.Fatal("NewClient() returned nil client")
			}
		})
	}
}

func TestClient_ListNamespacesPaginated(t *testing.T) {
	var sawAuth atomic.Bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/namespaces" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") == "Bearer test-token" {
			sawAuth.Store(true)
		}

		cursor := r.URL.Query().Get("cursor")
		w.Header().Set("Content-Type", "application/json")
		switch cursor {
		case "":
			fmt.Fprint(w, `{"items":[{"name":"acme"},{"name":"globex"}],"nextCursor":"c2"}`)
		case "c2":
			fmt.Fprint(w, `{"items":[],"nextCursor":"c3"}`)
		case "c3":
			fmt.Fprint(w, `{"items":[{"name":"initech","displayName":"Initech"}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	namespaces, err := client.ListNamespaces(context.Background())
	if err != nil {
		t.Fatalf("ListNamespaces() unexpected error = %v", err)
	}

	if len(namespaces) != 3 {
		t.Fatalf("ListNamespaces() returned %d namespaces, want 3", len(namespaces))
	}
	wantNames := []string{"acme", "globex", "initech"}
	for i, want := range wantNames {
		if namespaces[i].Name != want {
			t.Errorf("namespace %d = %q, want %q", i, namespaces[i].Name, want)
		}
	}
	if namespaces[2].DisplayName != "Initech" {
		t.Errorf("displayName = %q, want Initech", namespaces[2].DisplayName)
	}
	if !sawAuth.Load() {
		t.Error("expected bearer token on requests")
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"name":"dev"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	environments, err := client.ListEnvironments(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ListEnvironments() unexpected error = %v", err)
	}
	if len(environments) != 1 || environments[0].Name != "dev" {
		t.Errorf("ListEnvironments() = %+v, want one environment named dev", environments)
	}
	if attempts.Load() != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts.Load())
	}
}

func TestClient_StatusErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "bad request", status: http.StatusBadRequest, wantErr: ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			_, err := client.ListProjects(context.Background(), "acme")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ListProjects() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_GetWorkload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/api/v1/namespaces/acme/projects/shop/components/checkout/workload"
		if r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"checkout","endpoints":{"http":{"type":"REST","port":8080,"visibility":"Public"}}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	workload, err := client.GetWorkload(context.Background(), "acme", "shop", "checkout")
	if err != nil {
		t.Fatalf("GetWorkload() unexpected error = %v", err)
	}
	endpoint, ok := workload.Endpoints["http"]
	if !ok {
		t.Fatalf("workload missing http endpoint: %+v", workload)
	}
	if endpoint.Type != "REST" || endpoint.Port != 8080 {
		t.Errorf("endpoint = %+v, want REST on 8080", endpoint)
	}
}

func TestComponentRecord_ShapeAdapter(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantName  string
		wantType  string
		wantScope string
	}{
		{
			name:      "legacy flat shape",
			payload:   `{"name":"checkout","componentType":"service"}`,
			wantName:  "checkout",
			wantType:  "service",
			wantScope: ScopeNamespace,
		},
		{
			name:      "new structured shape",
			payload:   `{"name":"checkout","type":{"name":"web-service","scope":"cluster"}}`,
			wantName:  "checkout",
			wantType:  "web-service",
			wantScope: ScopeCluster,
		},
		{
			name:      "new shape without scope defaults to namespace",
			payload:   `{"name":"checkout","type":{"name":"web-service"}}`,
			wantName:  "checkout",
			wantType:  "web-service",
			wantScope: ScopeNamespace,
		},
		{
			name:      "structured shape wins when both are present",
			payload:   `{"name":"checkout","componentType":"legacy","type":{"name":"new","scope":"namespace"}}`,
			wantName:  "checkout",
			wantType:  "new",
			wantScope: ScopeNamespace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record ComponentRecord
			if err := json.Unmarshal([]byte(tt.payload), &record); err != nil {
				t.Fatalf("Unmarshal() unexpected error = %v", err)
			}

			if record.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", record.Name, tt.wantName)
			}
			if record.Type.Name != tt.wantType {
				t.Errorf("Type.Name = %q, want %q", record.Type.Name, tt.wantType)
			}
			if record.Type.Scope != tt.wantScope {
				t.Errorf("Type.Scope = %q, want %q", record.Type.Scope, tt.wantScope)
			}
		})
	}
}
