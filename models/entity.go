package models

// Entity kinds produced by the synchronizer. Namespace-scoped kinds carry the
// namespace they were observed in; cluster-scoped kinds are pinned to
// ClusterNamespace.
const (
	// KindDomain is the catalog mapping of a platform namespace.
	KindDomain = "Domain"

	// KindProject is a project owned by exactly one Domain.
	KindProject = "Project"

	// KindComponent is a deployable unit owned by exactly one Project.
	KindComponent = "Component"

	// KindEnvironment is a runtime environment owned by a Domain.
	KindEnvironment = "Environment"

	// KindDataPlane is a data plane infrastructure resource.
	KindDataPlane = "DataPlane"

	// KindBuildPlane is a build plane infrastructure resource.
	KindBuildPlane = "BuildPlane"

	// KindObservabilityPlane is an observability plane infrastructure resource.
	KindObservabilityPlane = "ObservabilityPlane"

	// KindDeploymentPipeline is a promotion pipeline owned by a Domain.
	KindDeploymentPipeline = "DeploymentPipeline"

	// KindComponentType is a namespace-scoped component type definition.
	KindComponentType = "ComponentType"

	// KindClusterComponentType is a cluster-scoped component type definition.
	KindClusterComponentType = "ClusterComponentType"

	// KindTrait is a namespace-scoped trait definition.
	KindTrait = "Trait"

	// KindClusterTrait is a cluster-scoped trait definition.
	KindClusterTrait = "ClusterTrait"

	// KindWorkflow is a named automation template.
	KindWorkflow = "Workflow"

	// KindComponentWorkflow is a component-scoped automation template.
	KindComponentWorkflow = "ComponentWorkflow"

	// KindAPI is a derived entity synthesized from a service component's
	// workload endpoints. Never fetched from the platform directly.
	KindAPI = "API"

	// KindReleaseBinding is a per-(component, environment) deployment record.
	KindReleaseBinding = "ReleaseBinding"
)

// ClusterNamespace is the fixed pseudo-namespace assigned to cluster-scoped
// kinds so that every entity is addressable by (kind, namespace, name).
const ClusterNamespace = "cluster"

var validKinds = map[string]bool{
	KindDomain:               true,
	KindProject:              true,
	KindComponent:            true,
	KindEnvironment:          true,
	KindDataPlane:            true,
	KindBuildPlane:           true,
	KindObservabilityPlane:   true,
	KindDeploymentPipeline:   true,
	KindComponentType:        true,
	KindClusterComponentType: true,
	KindTrait:                true,
	KindClusterTrait:         true,
	KindWorkflow:             true,
	KindComponentWorkflow:    true,
	KindAPI:                  true,
	KindReleaseBinding:       true,
}

// ValidKind reports whether kind is one of the Kind* constants.
func ValidKind(kind string) bool {
	return validKinds[kind]
}

// Well-known annotation keys attached by the translators.
const (
	// AnnotationManagedBy records the location key of the synchronizer
	// instance that produced the entity.
	AnnotationManagedBy = "choreosync.io/managed-by"

	// AnnotationSourceUID records the UID of the platform resource the
	// entity was translated from, when the platform provided one.
	AnnotationSourceUID = "choreosync.io/source-uid"

	// AnnotationCreatedAt records the platform-side creation timestamp of
	// the source resource, when the platform provided one.
	AnnotationCreatedAt = "choreosync.io/created-at"

	// AnnotationSchemaInvalid marks a component type whose fetched schema
	// failed to compile as a JSON Schema document.
	AnnotationSchemaInvalid = "choreosync.io/schema-invalid"
)

// Entity is one record in the catalog. Entity identity is the triple
// (Kind, Namespace, Name); translating the same platform resource twice with
// the same translation config yields a structurally identical Entity.
type Entity struct {
	// Kind is one of the Kind* constants.
	Kind string `json:"kind"`

	// Namespace is the owning platform namespace, or ClusterNamespace for
	// cluster-scoped kinds.
	Namespace string `json:"namespace"`

	// Name is the resource's primary name, unique within (Kind, Namespace).
	Name string `json:"name"`

	// Title is the human-readable display name. Defaults to Name when the
	// platform resource carried no display name.
	Title string `json:"title"`

	// Description is the human-readable description. Defaults to Name when
	// the platform resource carried no description.
	Description string `json:"description"`

	// Owner is the identity the entity is attributed to. Populated from the
	// translation config's default owner; empty when none was configured.
	Owner string `json:"owner,omitempty"`

	// Labels are deterministic key/value pairs copied from the source.
	// Keys are present only when the source value was non-empty.
	Labels map[string]string `json:"labels,omitempty"`

	// Annotations are deterministic key/value pairs attached by the
	// translators. Keys are present only with non-empty values.
	Annotations map[string]string `json:"annotations,omitempty"`

	// ManagedBy is the location key of the synchronizer instance that owns
	// this entity. The catalog store uses it for full-set replacement.
	ManagedBy string `json:"managedBy"`

	// Spec is the kind-specific payload (one of the *Spec types below).
	Spec any `json:"spec,omitempty"`
}

// Ref returns the compound reference string for the entity in the canonical
// "kind:namespace/name" form.
func (e Entity) Ref() string {
	return e.Kind + ":" + e.Namespace + "/" + e.Name
}

// ProjectSpec is the payload of a Project entity.
type ProjectSpec struct {
	// Domain is the name of the owning Domain entity.
	Domain string `json:"domain"`

	// DeploymentPipeline is the name of the pipeline the project references,
	// empty when the project declares none.
	DeploymentPipeline string `json:"deploymentPipeline,omitempty"`
}

// WorkflowLink records the source repository a component is built from.
type WorkflowLink struct {
	// RepositoryURL is the source repository URL.
	RepositoryURL string `json:"repositoryUrl"`

	// Branch is the tracked branch, empty when unknown.
	Branch string `json:"branch,omitempty"`

	// Commit is the pinned revision, empty when unknown.
	Commit string `json:"commit,omitempty"`
}

// ComponentSpec is the payload of a Component entity.
type ComponentSpec struct {
	// Project is the name of the owning Project entity.
	Project string `json:"project"`

	// ComponentType is the name of the component's type definition.
	ComponentType string `json:"componentType"`

	// ComponentTypeScope is "namespace" or "cluster" depending on whether
	// the type reference resolves to a ComponentType or ClusterComponentType.
	ComponentTypeScope string `json:"componentTypeScope"`

	// Workflow links the component to its source repository, nil when the
	// platform record carried no build information.
	Workflow *WorkflowLink `json:"workflow,omitempty"`

	// ProvidesAPIs lists the names of API entities derived from the
	// component's workload endpoints. Present only when non-empty.
	ProvidesAPIs []string `json:"providesApis,omitempty"`
}

// EnvironmentSpec is the payload of an Environment entity.
type EnvironmentSpec struct {
	// DataPlane is the name of the data plane the environment runs on.
	DataPlane string `json:"dataPlane,omitempty"`

	// Production marks the environment as a production environment.
	Production bool `json:"production"`

	// PromotionTargets lists the environments this environment promotes to,
	// aggregated across the namespace's pipelines. Present only when the
	// environment is a promotion source in at least one pipeline.
	PromotionTargets []PromotionTarget `json:"promotionTargets,omitempty"`
}

// PromotionTarget is one outgoing edge of an environment in a promotion graph.
type PromotionTarget struct {
	// Name is the target environment's name.
	Name string `json:"name"`

	// RequiresApproval indicates a manual approval gates this promotion.
	RequiresApproval bool `json:"requiresApproval,omitempty"`
}

// PromotionPath is one declared promotion step of a deployment pipeline.
type PromotionPath struct {
	// Source is the source environment name.
	Source string `json:"source"`

	// Targets are the environments the source promotes to.
	Targets []PromotionTarget `json:"targets"`
}

// DeploymentPipelineSpec is the payload of a DeploymentPipeline entity.
type DeploymentPipelineSpec struct {
	// PromotionPaths is the declared promotion topology, in platform order.
	PromotionPaths []PromotionPath `json:"promotionPaths,omitempty"`

	// ProjectRefs lists the names of projects referencing this pipeline,
	// deduplicated, in discovery order. Empty when no project references it.
	ProjectRefs []string `json:"projectRefs"`

	// EnvironmentOrder is the deterministic environment visiting order
	// resolved from the promotion topology.
	EnvironmentOrder []string `json:"environmentOrder,omitempty"`
}

// PlaneSpec is the payload of a DataPlane, BuildPlane, or ObservabilityPlane
// entity.
type PlaneSpec struct {
	// Connected indicates whether at least one agent is connected.
	Connected bool `json:"connected"`

	// ConnectedAgents is the number of connected agents.
	ConnectedAgents int `json:"connectedAgents"`

	// LastSeen is the RFC3339 timestamp of the last agent heartbeat,
	// empty when no agent has ever connected.
	LastSeen string `json:"lastSeen,omitempty"`
}

// ComponentTypeSpec is the payload of a ComponentType or ClusterComponentType
// entity.
type ComponentTypeSpec struct {
	// AllowedWorkflows lists the workflow names components of this type may
	// use.
	AllowedWorkflows []string `json:"allowedWorkflows,omitempty"`

	// Schema is the raw JSON Schema governing component parameters, as
	// fetched from the platform. Present only when the platform served one.
	Schema string `json:"schema,omitempty"`
}

// TraitSpec is the payload of a Trait or ClusterTrait entity.
type TraitSpec struct {
	// AllowedWorkflows lists the workflow names the trait may attach to.
	AllowedWorkflows []string `json:"allowedWorkflows,omitempty"`
}

// WorkflowSpec is the payload of a Workflow or ComponentWorkflow entity.
type WorkflowSpec struct {
	// Component is the owning component name. Set only for component
	// workflows.
	Component string `json:"component,omitempty"`
}

// APISpec is the payload of a derived API entity.
type APISpec struct {
	// Component is the name of the component providing the API.
	Component string `json:"component"`

	// EndpointName is the workload endpoint the API was derived from.
	EndpointName string `json:"endpointName"`

	// Type is the endpoint protocol type (for example "REST" or "gRPC").
	Type string `json:"type,omitempty"`

	// Port is the endpoint port.
	Port int `json:"port,omitempty"`

	// Visibility is the endpoint exposure level (for example "Public").
	Visibility string `json:"visibility,omitempty"`
}

// Release binding statuses derived from the binding's readiness condition.
const (
	// BindingStatusReady indicates the release's Ready condition is true.
	BindingStatusReady = "Ready"

	// BindingStatusFailed indicates the release's Ready condition is false.
	BindingStatusFailed = "Failed"

	// BindingStatusUnknown indicates no readiness condition was reported.
	BindingStatusUnknown = "Unknown"
)

// ReleaseBindingSpec is the payload of a ReleaseBinding entity.
type ReleaseBindingSpec struct {
	// Component is the bound component's name.
	Component string `json:"component"`

	// Environment is the environment the component is deployed to.
	Environment string `json:"environment"`

	// Status is one of the BindingStatus* constants.
	Status string `json:"status"`
}
