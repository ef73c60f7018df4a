// Package sdk provides the HTTP client for the platform management API.
//
// The client exposes one typed list method per resource collection, each
// draining the platform's cursor pagination into a single slice, plus the
// get-by-name lookups the synchronizer needs (workloads, component type
// schemas). Transient failures are retried with exponential backoff inside
// the transport; list methods surface only the final error.
package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is the SDK client for the platform management API.
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	retryAttempts int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration
	pageLimit     int
}

// NewClient creates a new SDK client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:       config.BaseURL,
		token:         config.Token,
		httpClient:    config.HTTPClient,
		retryAttempts: config.RetryAttempts,
		retryWaitMin:  config.RetryWaitMin,
		retryWaitMax:  config.RetryWaitMax,
		pageLimit:     config.PageLimit,
	}, nil
}

// BaseURL returns the normalized platform API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// page is the platform's cursor-paginated list envelope.
type page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

// listPage fetches one page of a list endpoint.
func listPage[T any](ctx context.Context, c *Client, path, cursor string) ([]T, string, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var out page[T]
	if err := c.getJSON(ctx, path+"?"+q.Encode(), &out); err != nil {
		return nil, "", err
	}

	next := ""
	if out.NextCursor != nil {
		next = *out.NextCursor
	}
	return out.Items, next, nil
}

// listAll drains a cursor-paginated list endpoint into one slice.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	return FetchAllPages(ctx, func(ctx context.Context, cursor string) ([]T, string, error) {
		return listPage[T](ctx, c, path, cursor)
	})
}

// getJSON performs a GET request and decodes the JSON response body.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.addAuthHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer drainAndCloseBody(resp)

	if err := checkStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// getRaw performs a GET request and returns the raw response body.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.addAuthHeaders(req)

	resp, err := c.doRequestWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	defer drainAndCloseBody(resp)

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// checkStatus maps non-2xx responses to sentinel errors.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status code %d", ErrServerError, resp.StatusCode)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}

// ============================================================================
// Cluster-scoped collections
// ============================================================================

// ListNamespaces returns every namespace visible to the client.
func (c *Client) ListNamespaces(ctx context.Context) ([]NamespaceRecord, error) {
	return listAll[NamespaceRecord](ctx, c, "/api/v1/namespaces")
}

// ListClusterComponentTypes returns every cluster-scoped component type
// definition.
func (c *Client) ListClusterComponentTypes(ctx context.Context) ([]ComponentTypeRecord, error) {
	return listAll[ComponentTypeRecord](ctx, c, "/api/v1/clustercomponenttypes")
}

// ListClusterTraits returns every cluster-scoped trait definition.
func (c *Client) ListClusterTraits(ctx context.Context) ([]TraitRecord, error) {
	return listAll[TraitRecord](ctx, c, "/api/v1/clustertraits")
}

// ============================================================================
// Namespace-scoped collections
// ============================================================================

// ListProjects returns every project in a namespace.
func (c *Client) ListProjects(ctx context.Context, namespace string) ([]ProjectRecord, error) {
	return listAll[ProjectRecord](ctx, c, nsPath(namespace, "projects"))
}

// ListEnvironments returns every environment in a namespace.
func (c *Client) ListEnvironments(ctx context.Context, namespace string) ([]EnvironmentRecord, error) {
	return listAll[EnvironmentRecord](ctx, c, nsPath(namespace, "environments"))
}

// ListDataPlanes returns every data plane in a namespace.
func (c *Client) ListDataPlanes(ctx context.Context, namespace string) ([]PlaneRecord, error) {
	return listAll[PlaneRecord](ctx, c, nsPath(namespace, "dataplanes"))
}

// ListBuildPlanes returns every build plane in a namespace.
func (c *Client) ListBuildPlanes(ctx context.Context, namespace string) ([]PlaneRecord, error) {
	return listAll[PlaneRecord](ctx, c, nsPath(namespace, "buildplanes"))
}

// ListObservabilityPlanes returns every observability plane in a namespace.
func (c *Client) ListObservabilityPlanes(ctx context.Context, namespace string) ([]PlaneRecord, error) {
	return listAll[PlaneRecord](ctx, c, nsPath(namespace, "observabilityplanes"))
}

// ListDeploymentPipelines returns every deployment pipeline in a namespace.
func (c *Client) ListDeploymentPipelines(ctx context.Context, namespace string) ([]DeploymentPipelineRecord, error) {
	return listAll[DeploymentPipelineRecord](ctx, c, nsPath(namespace, "deploymentpipelines"))
}

// ListComponents returns every component of a project.
func (c *Client) ListComponents(ctx context.Context, namespace, project string) ([]ComponentRecord, error) {
	path := nsPath(namespace, "projects") + "/" + url.PathEscape(project) + "/components"
	return listAll[ComponentRecord](ctx, c, path)
}

// ListComponentTypes returns every namespace-scoped component type definition.
func (c *Client) ListComponentTypes(ctx context.Context, namespace string) ([]ComponentTypeRecord, error) {
	return listAll[ComponentTypeRecord](ctx, c, nsPath(namespace, "componenttypes"))
}

// ListTraits returns every namespace-scoped trait definition.
func (c *Client) ListTraits(ctx context.Context, namespace string) ([]TraitRecord, error) {
	return listAll[TraitRecord](ctx, c, nsPath(namespace, "traits"))
}

// ListWorkflows returns every workflow in a namespace.
func (c *Client) ListWorkflows(ctx context.Context, namespace string) ([]WorkflowRecord, error) {
	return listAll[WorkflowRecord](ctx, c, nsPath(namespace, "workflows"))
}

// ListComponentWorkflows returns every component workflow in a namespace.
func (c *Client) ListComponentWorkflows(ctx context.Context, namespace string) ([]WorkflowRecord, error) {
	return listAll[WorkflowRecord](ctx, c, nsPath(namespace, "componentworkflows"))
}

// ListReleaseBindings returns every release binding in a namespace.
func (c *Client) ListReleaseBindings(ctx context.Context, namespace string) ([]ReleaseBindingRecord, error) {
	return listAll[ReleaseBindingRecord](ctx, c, nsPath(namespace, "releasebindings"))
}

// ============================================================================
// Get-by-name lookups
// ============================================================================

// GetWorkload returns the workload backing a service component.
func (c *Client) GetWorkload(ctx context.Context, namespace, project, component string) (WorkloadRecord, error) {
	path := nsPath(namespace, "projects") + "/" + url.PathEscape(project) +
		"/components/" + url.PathEscape(component) + "/workload"

	var out WorkloadRecord
	if err := c.getJSON(ctx, path, &out); err != nil {
		return WorkloadRecord{}, err
	}
	return out, nil
}

// GetComponentTypeSchema returns the raw parameter schema of a namespace-scoped
// component type.
func (c *Client) GetComponentTypeSchema(ctx context.Context, namespace, name string) ([]byte, error) {
	return c.getRaw(ctx, nsPath(namespace, "componenttypes")+"/"+url.PathEscape(name)+"/schema")
}

// GetClusterComponentTypeSchema returns the raw parameter schema of a
// cluster-scoped component type.
func (c *Client) GetClusterComponentTypeSchema(ctx context.Context, name string) ([]byte, error) {
	return c.getRaw(ctx, "/api/v1/clustercomponenttypes/"+url.PathEscape(name)+"/schema")
}

// nsPath builds a namespace-scoped collection path.
func nsPath(namespace, collection string) string {
	return "/api/v1/namespaces/" + url.PathEscape(namespace) + "/" + collection
}
