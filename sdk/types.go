package sdk

import "encoding/json"

// Component type reference scopes.
const (
	// ScopeNamespace marks a reference to a namespace-scoped ComponentType.
	ScopeNamespace = "namespace"

	// ScopeCluster marks a reference to a cluster-scoped ClusterComponentType.
	ScopeCluster = "cluster"
)

// NamespaceRecord is a platform namespace as returned by the list endpoint.
// Display fields and timestamps are optional on the wire.
type NamespaceRecord struct {
	// Name is the namespace's unique name.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`
}

// ProjectRecord is a platform project.
type ProjectRecord struct {
	// Name is the project's unique name within its namespace.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// DeploymentPipelineRef names the pipeline governing the project's
	// environment promotion, empty when the project declares none.
	DeploymentPipelineRef string `json:"deploymentPipelineRef,omitempty"`
}

// ComponentTypeRef is a component's resolved type reference.
type ComponentTypeRef struct {
	// Name is the type definition's name.
	Name string `json:"name"`

	// Scope is ScopeNamespace or ScopeCluster.
	Scope string `json:"scope"`
}

// BuildInfo links a component to the source repository it is built from.
type BuildInfo struct {
	// RepositoryURL is the source repository URL.
	RepositoryURL string `json:"repositoryUrl"`

	// Branch is the tracked branch.
	Branch string `json:"branch,omitempty"`

	// Commit is the pinned revision.
	Commit string `json:"commit,omitempty"`
}

// ComponentRecord is a platform component in its canonical internal shape.
//
// The platform serves components in two wire shapes: a legacy shape with a
// flat "componentType" string (always namespace-scoped) and a new shape with
// a structured "type" object carrying name and scope. The shape is resolved
// once here, at the SDK boundary; everything downstream sees only the
// canonical record.
type ComponentRecord struct {
	// Name is the component's unique name within its project.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// Project is the owning project's name.
	Project string `json:"project,omitempty"`

	// Type is the component's resolved type reference.
	Type ComponentTypeRef `json:"type"`

	// Build is the optional source repository linkage.
	Build *BuildInfo `json:"build,omitempty"`
}

// componentWire mirrors both wire shapes of a component record.
type componentWire struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Description string            `json:"description"`
	UID         string            `json:"uid"`
	CreatedAt   string            `json:"createdAt"`
	Project     string            `json:"project"`
	Type        *ComponentTypeRef `json:"type"`

	// ComponentType is the legacy flat type name. Legacy records are always
	// namespace-scoped.
	ComponentType string `json:"componentType"`

	Build *BuildInfo `json:"build"`
}

// UnmarshalJSON resolves the legacy/new wire shapes into the canonical record.
func (r *ComponentRecord) UnmarshalJSON(data []byte) error {
	var wire componentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.Name = wire.Name
	r.DisplayName = wire.DisplayName
	r.Description = wire.Description
	r.UID = wire.UID
	r.CreatedAt = wire.CreatedAt
	r.Project = wire.Project
	r.Build = wire.Build

	switch {
	case wire.Type != nil:
		r.Type = *wire.Type
		if r.Type.Scope == "" {
			r.Type.Scope = ScopeNamespace
		}
	default:
		r.Type = ComponentTypeRef{Name: wire.ComponentType, Scope: ScopeNamespace}
	}

	return nil
}

// EnvironmentRecord is a platform environment.
type EnvironmentRecord struct {
	// Name is the environment's unique name within its namespace.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// DataPlaneRef names the data plane the environment runs on.
	DataPlaneRef string `json:"dataPlaneRef,omitempty"`

	// IsProduction marks the environment as a production environment.
	IsProduction bool `json:"isProduction,omitempty"`
}

// AgentConnectionStatus is the agent connectivity state of a plane.
type AgentConnectionStatus struct {
	// Connected indicates whether at least one agent is connected.
	Connected bool `json:"connected"`

	// ConnectedAgentCount is the number of connected agents.
	ConnectedAgentCount int `json:"connectedAgentCount"`

	// LastSeen is the optional RFC3339 timestamp of the last heartbeat.
	LastSeen string `json:"lastSeen,omitempty"`
}

// PlaneRecord is a data, build, or observability plane.
type PlaneRecord struct {
	// Name is the plane's unique name within its namespace.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// AgentConnection is the optional agent connectivity status.
	AgentConnection *AgentConnectionStatus `json:"agentConnection,omitempty"`
}

// TargetEnvironmentRef is one promotion target of a promotion path.
type TargetEnvironmentRef struct {
	// Name is the target environment's name.
	Name string `json:"name"`

	// RequiresApproval indicates a manual approval gates this promotion.
	RequiresApproval bool `json:"requiresApproval,omitempty"`
}

// PromotionPathRecord is one declared promotion step of a pipeline.
type PromotionPathRecord struct {
	// SourceEnvironmentRef is the source environment's name.
	SourceEnvironmentRef string `json:"sourceEnvironmentRef"`

	// TargetEnvironmentRefs are the environments the source promotes to.
	TargetEnvironmentRefs []TargetEnvironmentRef `json:"targetEnvironmentRefs"`
}

// DeploymentPipelineRecord is a platform deployment pipeline.
type DeploymentPipelineRecord struct {
	// Name is the pipeline's unique name within its namespace.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// PromotionPaths is the declared promotion topology, in platform order.
	PromotionPaths []PromotionPathRecord `json:"promotionPaths,omitempty"`
}

// ComponentTypeRecord is a component type or cluster component type
// definition.
type ComponentTypeRecord struct {
	// Name is the type definition's name.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// AllowedWorkflows lists the workflow names components of this type may use.
	AllowedWorkflows []string `json:"allowedWorkflows,omitempty"`
}

// TraitRecord is a trait or cluster trait definition.
type TraitRecord struct {
	// Name is the trait definition's name.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// AllowedWorkflows lists the workflow names the trait may attach to.
	AllowedWorkflows []string `json:"allowedWorkflows,omitempty"`
}

// WorkflowRecord is a workflow or component workflow template.
type WorkflowRecord struct {
	// Name is the workflow's unique name within its namespace.
	Name string `json:"name"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`

	// Description is the optional human-readable description.
	Description string `json:"description,omitempty"`

	// UID is the optional platform-side unique identifier.
	UID string `json:"uid,omitempty"`

	// CreatedAt is the optional RFC3339 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`

	// ComponentName is the owning component's name. Set only on component
	// workflow records.
	ComponentName string `json:"componentName,omitempty"`
}

// WorkloadEndpoint is one network endpoint exposed by a workload.
type WorkloadEndpoint struct {
	// Type is the endpoint protocol type (for example "REST" or "gRPC").
	Type string `json:"type,omitempty"`

	// Port is the endpoint port.
	Port int `json:"port,omitempty"`

	// Visibility is the endpoint exposure level (for example "Public").
	Visibility string `json:"visibility,omitempty"`
}

// WorkloadRecord is the runtime workload backing a service component.
type WorkloadRecord struct {
	// Name is the workload's name.
	Name string `json:"name"`

	// Endpoints maps endpoint names to their definitions.
	Endpoints map[string]WorkloadEndpoint `json:"endpoints,omitempty"`
}

// Condition is a platform-side status condition.
type Condition struct {
	// Type is the condition type (for example "Ready").
	Type string `json:"type"`

	// Status is "True", "False", or "Unknown".
	Status string `json:"status"`

	// Reason is the optional machine-readable reason.
	Reason string `json:"reason,omitempty"`
}

// ReleaseBindingRecord is a per-(component, environment) deployment record.
type ReleaseBindingRecord struct {
	// Name is the binding's unique name within its namespace.
	Name string `json:"name"`

	// ComponentName is the bound component's name.
	ComponentName string `json:"componentName"`

	// Environment is the environment the component is deployed to.
	Environment string `json:"environment"`

	// Conditions are the binding's status conditions.
	Conditions []Condition `json:"conditions,omitempty"`
}
