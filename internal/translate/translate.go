// Package translate converts platform API records into catalog entities.
//
// Translation is pure and deterministic: the same record and config always
// produce a structurally identical entity, so repeated reconciliation runs
// over an unchanged platform yield byte-identical mutations. Optional source
// fields never produce empty keys; display fields fall back to the resource
// name.
package translate

import (
	"sort"

	"github.com/rashadism/choreosync/models"
	"github.com/rashadism/choreosync/sdk"
)

// Config carries the per-instance translation settings.
type Config struct {
	// LocationKey identifies this synchronizer instance. It is stamped on
	// every entity as ManagedBy and as the managed-by annotation, and is the
	// key the catalog store replaces entity sets under.
	LocationKey string

	// DefaultOwner is the owner attributed to every translated entity.
	// Empty leaves Owner unset.
	DefaultOwner string
}

// Translator translates platform records into catalog entities.
type Translator struct {
	config Config
}

// New creates a Translator with the given configuration.
func New(config Config) *Translator {
	return &Translator{config: config}
}

// base builds the kind-independent part of an entity, applying display-field
// defaulting and optional source annotations.
func (t *Translator) base(kind, namespace, name, displayName, description, uid, createdAt string) models.Entity {
	title := displayName
	if title == "" {
		title = name
	}
	if description == "" {
		description = name
	}

	annotations := map[string]string{
		models.AnnotationManagedBy: t.config.LocationKey,
	}
	if uid != "" {
		annotations[models.AnnotationSourceUID] = uid
	}
	if createdAt != "" {
		annotations[models.AnnotationCreatedAt] = createdAt
	}

	return models.Entity{
		Kind:        kind,
		Namespace:   namespace,
		Name:        name,
		Title:       title,
		Description: description,
		Owner:       t.config.DefaultOwner,
		Annotations: annotations,
		ManagedBy:   t.config.LocationKey,
	}
}

// Domain translates a platform namespace into a Domain entity.
func (t *Translator) Domain(rec sdk.NamespaceRecord) models.Entity {
	return t.base(models.KindDomain, rec.Name, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)
}

// Project translates a project record into a Project entity owned by the
// namespace's Domain.
func (t *Translator) Project(namespace string, rec sdk.ProjectRecord) models.Entity {
	entity := t.base(models.KindProject, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)
	entity.Spec = models.ProjectSpec{
		Domain:             namespace,
		DeploymentPipeline: rec.DeploymentPipelineRef,
	}
	return entity
}

// Component translates a component record into a Component entity.
// providesAPIs lists the names of API entities derived from the component's
// workload; pass nil when the workload was unavailable or exposed no
// endpoints.
func (t *Translator) Component(namespace string, rec sdk.ComponentRecord, providesAPIs []string) models.Entity {
	entity := t.base(models.KindComponent, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)

	spec := models.ComponentSpec{
		Project:            rec.Project,
		ComponentType:      rec.Type.Name,
		ComponentTypeScope: rec.Type.Scope,
	}
	if rec.Build != nil && rec.Build.RepositoryURL != "" {
		spec.Workflow = &models.WorkflowLink{
			RepositoryURL: rec.Build.RepositoryURL,
			Branch:        rec.Build.Branch,
			Commit:        rec.Build.Commit,
		}
	}
	if len(providesAPIs) > 0 {
		spec.ProvidesAPIs = providesAPIs
	}

	entity.Spec = spec
	return entity
}

// Environment translates an environment record into an Environment entity.
// promotionTargets is the environment's aggregated outgoing promotion edges
// across the namespace's pipelines; nil when the environment promotes nowhere.
func (t *Translator) Environment(namespace string, rec sdk.EnvironmentRecord, promotionTargets []models.PromotionTarget) models.Entity {
	entity := t.base(models.KindEnvironment, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)

	spec := models.EnvironmentSpec{
		DataPlane:  rec.DataPlaneRef,
		Production: rec.IsProduction,
	}
	if len(promotionTargets) > 0 {
		spec.PromotionTargets = promotionTargets
	}

	entity.Spec = spec
	return entity
}

// DataPlane translates a data plane record into a DataPlane entity.
func (t *Translator) DataPlane(namespace string, rec sdk.PlaneRecord) models.Entity {
	return t.plane(models.KindDataPlane, namespace, rec)
}

// BuildPlane translates a build plane record into a BuildPlane entity.
func (t *Translator) BuildPlane(namespace string, rec sdk.PlaneRecord) models.Entity {
	return t.plane(models.KindBuildPlane, namespace, rec)
}

// ObservabilityPlane translates an observability plane record into an
// ObservabilityPlane entity.
func (t *Translator) ObservabilityPlane(namespace string, rec sdk.PlaneRecord) models.Entity {
	return t.plane(models.KindObservabilityPlane, namespace, rec)
}

func (t *Translator) plane(kind, namespace string, rec sdk.PlaneRecord) models.Entity {
	entity := t.base(kind, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)

	spec := models.PlaneSpec{}
	if rec.AgentConnection != nil {
		spec.Connected = rec.AgentConnection.Connected
		spec.ConnectedAgents = rec.AgentConnection.ConnectedAgentCount
		spec.LastSeen = rec.AgentConnection.LastSeen
	}

	entity.Spec = spec
	return entity
}

// DeploymentPipeline translates a pipeline record into a DeploymentPipeline
// entity. projectRefs is the deduplicated, discovery-ordered list of projects
// referencing the pipeline; environmentOrder is the deterministic visiting
// order resolved from the pipeline's promotion topology.
func (t *Translator) DeploymentPipeline(namespace string, rec sdk.DeploymentPipelineRecord, projectRefs, environmentOrder []string) models.Entity {
	entity := t.base(models.KindDeploymentPipeline, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)

	paths := make([]models.PromotionPath, 0, len(rec.PromotionPaths))
	for _, path := range rec.PromotionPaths {
		targets := make([]models.PromotionTarget, 0, len(path.TargetEnvironmentRefs))
		for _, target := range path.TargetEnvironmentRefs {
			targets = append(targets, models.PromotionTarget{
				Name:             target.Name,
				RequiresApproval: target.RequiresApproval,
			})
		}
		paths = append(paths, models.PromotionPath{
			Source:  path.SourceEnvironmentRef,
			Targets: targets,
		})
	}

	if projectRefs == nil {
		projectRefs = []string{}
	}

	spec := models.DeploymentPipelineSpec{
		ProjectRefs:      projectRefs,
		EnvironmentOrder: environmentOrder,
	}
	if len(paths) > 0 {
		spec.PromotionPaths = paths
	}

	entity.Spec = spec
	return entity
}

// ComponentType translates a namespace-scoped component type record into a
// ComponentType entity. schema is the raw JSON Schema fetched for the type,
// nil when none was served; schemaValid reports whether it compiled.
func (t *Translator) ComponentType(namespace string, rec sdk.ComponentTypeRecord, schema []byte, schemaValid bool) models.Entity {
	return t.componentType(models.KindComponentType, namespace, rec, schema, schemaValid)
}

// ClusterComponentType translates a cluster-scoped component type record into
// a ClusterComponentType entity pinned to the cluster pseudo-namespace.
func (t *Translator) ClusterComponentType(rec sdk.ComponentTypeRecord, schema []byte, schemaValid bool) models.Entity {
	return t.componentType(models.KindClusterComponentType, models.ClusterNamespace, rec, schema, schemaValid)
}

func (t *Translator) componentType(kind, namespace string, rec sdk.ComponentTypeRecord, schema []byte, schemaValid bool) models.Entity {
	entity := t.base(kind, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)

	spec := models.ComponentTypeSpec{
		AllowedWorkflows: rec.AllowedWorkflows,
	}
	if len(schema) > 0 {
		if schemaValid {
			spec.Schema = string(schema)
		} else {
			entity.Annotations[models.AnnotationSchemaInvalid] = "true"
		}
	}

	entity.Spec = spec
	return entity
}

// Trait translates a namespace-scoped trait record into a Trait entity.
func (t *Translator) Trait(namespace string, rec sdk.TraitRecord) models.Entity {
	return t.trait(models.KindTrait, namespace, rec)
}

// ClusterTrait translates a cluster-scoped trait record into a ClusterTrait
// entity pinned to the cluster pseudo-namespace.
func (t *Translator) ClusterTrait(rec sdk.TraitRecord) models.Entity {
	return t.trait(models.KindClusterTrait, models.ClusterNamespace, rec)
}

func (t *Translator) trait(kind, namespace string, rec sdk.TraitRecord) models.Entity {
	entity := t.base(kind, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)
	entity.Spec = models.TraitSpec{AllowedWorkflows: rec.AllowedWorkflows}
	return entity
}

// Workflow translates a workflow record into a Workflow entity.
func (t *Translator) Workflow(namespace string, rec sdk.WorkflowRecord) models.Entity {
	entity := t.base(models.KindWorkflow, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)
	entity.Spec = models.WorkflowSpec{}
	return entity
}

// ComponentWorkflow translates a component workflow record into a
// ComponentWorkflow entity linked to its owning component.
func (t *Translator) ComponentWorkflow(namespace string, rec sdk.WorkflowRecord) models.Entity {
	entity := t.base(models.KindComponentWorkflow, namespace, rec.Name, rec.DisplayName, rec.Description, rec.UID, rec.CreatedAt)
	entity.Spec = models.WorkflowSpec{Component: rec.ComponentName}
	return entity
}

// APIs derives API entities from a service component's workload endpoints.
// One entity is produced per endpoint, named "<component>-<endpoint>", in
// endpoint-name order. A workload with no endpoints derives nothing.
func (t *Translator) APIs(namespace, component string, workload sdk.WorkloadRecord) []models.Entity {
	if len(workload.Endpoints) == 0 {
		return nil
	}

	names := make([]string, 0, len(workload.Endpoints))
	for name := range workload.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	entities := make([]models.Entity, 0, len(names))
	for _, endpointName := range names {
		endpoint := workload.Endpoints[endpointName]
		entity := t.base(models.KindAPI, namespace, component+"-"+endpointName, "", "", "", "")
		entity.Spec = models.APISpec{
			Component:    component,
			EndpointName: endpointName,
			Type:         endpoint.Type,
			Port:         endpoint.Port,
			Visibility:   endpoint.Visibility,
		}
		entities = append(entities, entity)
	}
	return entities
}

// ReleaseBinding translates a release binding record into a ReleaseBinding
// entity. The binding status is derived from the record's Ready condition.
func (t *Translator) ReleaseBinding(namespace string, rec sdk.ReleaseBindingRecord) models.Entity {
	entity := t.base(models.KindReleaseBinding, namespace, rec.Name, "", "", "", "")
	entity.Spec = models.ReleaseBindingSpec{
		Component:   rec.ComponentName,
		Environment: rec.Environment,
		Status:      bindingStatus(rec.Conditions),
	}
	return entity
}

// bindingStatus maps a binding's Ready condition to a catalog status.
func bindingStatus(conditions []sdk.Condition) string {
	for _, condition := range conditions {
		if condition.Type != "Ready" {
			continue
		}
		switch condition.Status {
		case "True":
			return models.BindingStatusReady
		case "False":
			return models.BindingStatusFailed
		}
		return models.BindingStatusUnknown
	}
	return models.BindingStatusUnknown
}
