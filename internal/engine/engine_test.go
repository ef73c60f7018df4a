package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rashadism/choreosync/internal/logging"
	"github.com/rashadism/choreosync/models"
	"github.com/rashadism/choreosync/sdk"
)

// fakeClient serves canned records keyed by namespace (and, for nested
// collections, "namespace/project" style keys). Missing keys yield empty
// lists; explicit error maps force failures.
type fakeClient struct {
	namespaces    []sdk.NamespaceRecord
	namespacesErr error

	environments    map[string][]sdk.EnvironmentRecord
	environmentsErr map[string]error
	projects        map[string][]sdk.ProjectRecord
	pipelines       map[string][]sdk.DeploymentPipelineRecord

	components    map[string][]sdk.ComponentRecord
	componentsErr map[string]error
	workloads     map[string]sdk.WorkloadRecord
	workloadsErr  map[string]error

	componentTypes map[string][]sdk.ComponentTypeRecord
	schemas        map[string][]byte

	clusterTypes   []sdk.ComponentTypeRecord
	clusterSchemas map[string][]byte
	clusterTraits  []sdk.TraitRecord

	traits             map[string][]sdk.TraitRecord
	workflows          map[string][]sdk.WorkflowRecord
	componentWorkflows map[string][]sdk.WorkflowRecord
	releaseBindings    map[string][]sdk.ReleaseBindingRecord
}

func (f *fakeClient) ListNamespaces(ctx context.Context) ([]sdk.NamespaceRecord, error) {
	return f.namespaces, f.namespacesErr
}

func (f *fakeClient) ListClusterComponentTypes(ctx context.Context) ([]sdk.ComponentTypeRecord, error) {
	return f.clusterTypes, nil
}

func (f *fakeClient) GetClusterComponentTypeSchema(ctx context.Context, name string) ([]byte, error) {
	if doc, ok := f.clusterSchemas[name]; ok {
		return doc, nil
	}
	return nil, sdk.ErrNotFound
}

func (f *fakeClient) ListClusterTraits(ctx context.Context) ([]sdk.TraitRecord, error) {
	return f.clusterTraits, nil
}

func (f *fakeClient) ListEnvironments(ctx context.Context, namespace string) ([]sdk.EnvironmentRecord, error) {
	if err := f.environmentsErr[namespace]; err != nil {
		return nil, err
	}
	return f.environments[namespace], nil
}

func (f *fakeClient) ListDataPlanes(ctx context.Context, namespace string) ([]sdk.PlaneRecord, error) {
	return nil, nil
}

func (f *fakeClient) ListBuildPlanes(ctx context.Context, namespace string) ([]sdk.PlaneRecord, error) {
	return nil, nil
}

func (f *fakeClient) ListObservabilityPlanes(ctx context.Context, namespace string) ([]sdk.PlaneRecord, error) {
	return nil, nil
}

func (f *fakeClient) ListProjects(ctx context.Context, namespace string) ([]sdk.ProjectRecord, error) {
	return f.projects[namespace], nil
}

func (f *fakeClient) ListDeploymentPipelines(ctx context.Context, namespace string) ([]sdk.DeploymentPipelineRecord, error) {
	return f.pipelines[namespace], nil
}

func (f *fakeClient) ListComponents(ctx context.Context, namespace, project string) ([]sdk.ComponentRecord, error) {
	key := namespace + "/" + project
	if err := f.componentsErr[key]; err != nil {
		return nil, err
	}
	return f.components[key], nil
}

func (f *fakeClient) GetWorkload(ctx context.Context, namespace, project, component string) (sdk.WorkloadRecord, error) {
	key := namespace + "/" + project + "/" + component
	if err := f.workloadsErr[key]; err != nil {
		return sdk.WorkloadRecord{}, err
	}
	if workload, ok := f.workloads[key]; ok {
		return workload, nil
	}
	return sdk.WorkloadRecord{}, sdk.ErrNotFound
}

func (f *fakeClient) ListComponentTypes(ctx context.Context, namespace string) ([]sdk.ComponentTypeRecord, error) {
	return f.componentTypes[namespace], nil
}

func (f *fakeClient) GetComponentTypeSchema(ctx context.Context, namespace, name string) ([]byte, error) {
	if doc, ok := f.schemas[namespace+"/"+name]; ok {
		return doc, nil
	}
	return nil, sdk.ErrNotFound
}

func (f *fakeClient) ListTraits(ctx context.Context, namespace string) ([]sdk.TraitRecord, error) {
	return f.traits[namespace], nil
}

func (f *fakeClient) ListWorkflows(ctx context.Context, namespace string) ([]sdk.WorkflowRecord, error) {
	return f.workflows[namespace], nil
}

func (f *fakeClient) ListComponentWorkflows(ctx context.Context, namespace string) ([]sdk.WorkflowRecord, error) {
	return f.componentWorkflows[namespace], nil
}

func (f *fakeClient) ListReleaseBindings(ctx context.Context, namespace string) ([]sdk.ReleaseBindingRecord, error) {
	return f.releaseBindings[namespace], nil
}

// fakeApplier records applied mutations.
type fakeApplier struct {
	mu        sync.Mutex
	mutations []models.Mutation
	err       error
}

func (a *fakeApplier) ApplyMutation(ctx context.Context, m models.Mutation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.mutations = append(a.mutations, m)
	return nil
}

func (a *fakeApplier) applied() []models.Mutation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mutations
}

func newTestEngine(client PlatformClient, applier models.MutationApplier) *Engine {
	return New(client, applier, zap.NewNop(), Config{
		LocationKey: "choreosync:test",
		Workers:     2,
	})
}

func entitiesOfKind(m models.Mutation, kind string) []models.Entity {
	var entities []models.Entity
	for _, located := range m.Entities {
		if located.Entity.Kind == kind {
			entities = append(entities, located.Entity)
		}
	}
	return entities
}

func findEntity(m models.Mutation, kind, namespace, name string) (models.Entity, bool) {
	for _, located := range m.Entities {
		e := located.Entity
		if e.Kind == kind && e.Namespace == namespace && e.Name == name {
			return e, true
		}
	}
	return models.Entity{}, false
}

func TestRunOnce_PartialFailureIsolation(t *testing.T) {
	client := &fakeClient{
		namespaces: []sdk.NamespaceRecord{{Name: "acme"}, {Name: "globex"}},
		environments: map[string][]sdk.EnvironmentRecord{
			"acme": {{Name: "dev"}, {Name: "prod", IsProduction: true}},
		},
		environmentsErr: map[string]error{
			"globex": fmt.Errorf("%w: status code 502", sdk.ErrServerError),
		},
	}
	applier := &fakeApplier{}

	result, err := newTestEngine(client, applier).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() unexpected error = %v", err)
	}

	if result.Outcome != models.RunOutcomeSucceeded {
		t.Errorf("Outcome = %q, want succeeded", result.Outcome)
	}

	mutations := applier.applied()
	if len(mutations) != 1 {
		t.Fatalf("applied %d mutations, want exactly 1", len(mutations))
	}
	mutation := mutations[0]

	if _, ok := findEntity(mutation, models.KindDomain, "acme", "acme"); !ok {
		t.Error("missing Domain entity for acme")
	}
	if _, ok := findEntity(mutation, models.KindDomain, "globex", "globex"); !ok {
		t.Error("missing Domain entity for globex despite its environment fetch failing")
	}

	environments := entitiesOfKind(mutation, models.KindEnvironment)
	if len(environments) != 2 {
		t.Errorf("environments = %d, want acme's 2", len(environments))
	}

	if len(result.Failures) != 1 {
		t.Fatalf("Failures = %+v, want exactly one", result.Failures)
	}
	failure := result.Failures[0]
	if failure.Namespace != "globex" || failure.Kind != models.KindEnvironment {
		t.Errorf("failure = %+v, want globex/Environment", failure)
	}
}

func TestRunOnce_FatalOnNamespaceListFailure(t *testing.T) {
	client := &fakeClient{namespacesErr: errors.New("connection refused")}
	applier := &fakeApplier{}

	result, err := newTestEngine(client, applier).RunOnce(context.Background())

	if !errors.Is(err, models.ErrRunFailed) {
		t.Errorf("RunOnce() error = %v, want ErrRunFailed", err)
	}
	if result.Outcome != models.RunOutcomeFailed {
		t.Errorf("Outcome = %q, want failed", result.Outcome)
	}
	if len(applier.applied()) != 0 {
		t.Error("mutation was applied despite fatal namespace list failure")
	}
}

func TestRunOnce_EmptyNamespace(t *testing.T) {
	client := &fakeClient{namespaces: []sdk.NamespaceRecord{{Name: "empty"}}}
	applier := &fakeApplier{}

	result, err := newTestEngine(client, applier).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() unexpected error = %v", err)
	}

	mutation := applier.applied()[0]
	if len(mutation.Entities) != 1 {
		t.Fatalf("entities = %d, want exactly the Domain", len(mutation.Entities))
	}
	entity := mutation.Entities[0].Entity
	if entity.Kind != models.KindDomain || entity.Name != "empty" {
		t.Errorf("entity = %s, want Domain empty", entity.Ref())
	}
	if result.Entities != 1 || len(result.Failures) != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestRunOnce_WorkloadDerivation(t *testing.T) {
	client := &fakeClient{
		namespaces: []sdk.NamespaceRecord{{Name: "acme"}},
		projects: map[string][]sdk.ProjectRecord{
			"acme": {{Name: "shop"}},
		},
		components: map[string][]sdk.ComponentRecord{
			"acme/shop": {
				{Name: "checkout", Type: sdk.ComponentTypeRef{Name: "web-service", Scope: sdk.ScopeNamespace}},
				{Name: "mailer", Type: sdk.ComponentTypeRef{Name: "web-service", Scope: sdk.ScopeNamespace}},
				{Name: "cron", Type: sdk.ComponentTypeRef{Name: "scheduled-task", Scope: sdk.ScopeNamespace}},
			},
		},
		workloads: map[string]sdk.WorkloadRecord{
			"acme/shop/checkout": {
				Name: "checkout",
				Endpoints: map[string]sdk.WorkloadEndpoint{
					"http": {Type: "REST", Port: 8080, Visibility: "Public"},
				},
			},
		},
		workloadsErr: map[string]error{
			"acme/shop/mailer": fmt.Errorf("%w: status code 503", sdk.ErrServerError),
		},
	}
	applier := &fakeApplier{}

	result, err := newTestEngine(client, applier).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() unexpected error = %v", err)
	}
	// Workload failures are fallbacks, never run failures.
	if len(result.Failures) != 0 {
		t.Errorf("Failures = %+v, want none", result.Failures)
	}

	mutation := applier.applied()[0]

	checkout, ok := findEntity(mutation, models.KindComponent, "acme", "checkout")
	if !ok {
		t.Fatal("missing checkout component")
	}
	if spec := checkout.Spec.(models.ComponentSpec); len(spec.ProvidesAPIs) != 1 || spec.ProvidesAPIs[0] != "checkout-http" {
		t.Errorf("checkout ProvidesAPIs = %v", spec.ProvidesAPIs)
	}
	if _, ok := findEntity(mutation, models.KindAPI, "acme", "checkout-http"); !ok {
		t.Error("missing derived API entity for checkout")
	}

	mailer, ok := findEntity(mutation, models.KindComponent, "acme", "mailer")
	if !ok {
		t.Fatal("mailer component missing despite workload fetch failure")
	}
	if spec := mailer.Spec.(models.ComponentSpec); spec.ProvidesAPIs != nil {
		t.Errorf("mailer ProvidesAPIs = %v, want none after workload fallback", spec.ProvidesAPIs)
	}

	// Non-service components never attempt workload derivation.
	if apis := entitiesOfKind(mutation, models.KindAPI); len(apis) != 1 {
		t.Errorf("derived APIs = %d, want 1", len(apis))
	}
}

func TestRunOnce_PipelineDedup(t *testing.T) {
	client := &fakeClient{
		namespaces: []sdk.NamespaceRecord{{Name: "acme"}},
		projects: map[string][]sdk.ProjectRecord{
			"acme": {
				{Name: "shop", DeploymentPipelineRef: "default"},
				{Name: "billing", DeploymentPipelineRef: "default"},
				{Name: "internal"},
			},
		},
		pipelines: map[string][]sdk.DeploymentPipelineRecord{
			"acme": {
				{
					Name: "default",
					PromotionPaths: []sdk.PromotionPathRecord{
						{SourceEnvironmentRef: "dev", TargetEnvironmentRefs: []sdk.TargetEnvironmentRef{{Name: "prod", RequiresApproval: true}}},
					},
				},
				{Name: "orphan"},
			},
		},
		environments: map[string][]sdk.EnvironmentRecord{
			"acme": {{Name: "dev"}, {Name: "prod", IsProduction: true}},
		},
	}
	applier := &fakeApplier{}

	_, err := newTestEngine(client, applier).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() unexpected error = %v", err)
	}

	mutation := applier.applied()[0]

	pipelines := entitiesOfKind(mutation, models.KindDeploymentPipeline)
	if len(pipelines) != 2 {
		t.Fatalf("pipelines = %d, want 2 (one per name)", len(pipelines))
	}

	defaultPipeline, ok := findEntity(mutation, models.KindDeploymentPipeline, "acme", "default")
	if !ok {
		t.Fatal("missing default pipeline entity")
	}
	spec := defaultPipeline.Spec.(models.DeploymentPipelineSpec)
	if len(spec.ProjectRefs) != 2 || spec.ProjectRefs[0] != "shop" || spec.ProjectRefs[1] != "billing" {
		t.Errorf("ProjectRefs = %v, want [shop billing] in discovery order", spec.ProjectRefs)
	}
	if len(spec.EnvironmentOrder) != 2 || spec.EnvironmentOrder[0] != "dev" || spec.EnvironmentOrder[1] != "prod" {
		t.Errorf("EnvironmentOrder = %v, want [dev prod]", spec.EnvironmentOrder)
	}

	orphan, ok := findEntity(mutation, models.KindDeploymentPipeline, "acme", "orphan")
	if !ok {
		t.Fatal("unreferenced pipeline was not emitted")
	}
	if refs := orphan.Spec.(models.DeploymentPipelineSpec).ProjectRefs; len(refs) != 0 {
		t.Errorf("orphan ProjectRefs = %v, want empty", refs)
	}

	// Environments pick up their aggregated promotion targets.
	dev, _ := findEntity(mutation, models.KindEnvironment, "acme", "dev")
	envSpec := dev.Spec.(models.EnvironmentSpec)
	if len(envSpec.PromotionTargets) != 1 || envSpec.PromotionTargets[0].Name != "prod" || !envSpec.PromotionTargets[0].RequiresApproval {
		t.Errorf("dev PromotionTargets = %+v", envSpec.PromotionTargets)
	}
}

func TestRunOnce_ClusterScopedKinds(t *testing.T) {
	client := &fakeClient{
		namespaces:   []sdk.NamespaceRecord{{Name: "acme"}},
		clusterTypes: []sdk.ComponentTypeRecord{{Name: "web-service"}, {Name: "broken"}},
		clusterSchemas: map[string][]byte{
			"web-service": []byte(`{"type":"object"}`),
			"broken":      []byte(`{not json`),
		},
		clusterTraits: []sdk.TraitRecord{{Name: "autoscale"}},
	}
	applier := &fakeApplier{}

	_, err := newTestEngine(client, applier).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() unexpected error = %v", err)
	}

	mutation := applier.applied()[0]

	webService, ok := findEntity(mutation, models.KindClusterComponentType, models.ClusterNamespace, "web-service")
	if !ok {
		t.Fatal("missing cluster component type")
	}
	if spec := webService.Spec.(models.ComponentTypeSpec); spec.Schema == "" {
		t.Error("valid schema was not attached")
	}

	broken, _ := findEntity(mutation, models.KindClusterComponentType, models.ClusterNamespace, "broken")
	if broken.Annotations[models.AnnotationSchemaInvalid] != "true" {
		t.Error("invalid schema was not flagged")
	}
	if spec := broken.Spec.(models.ComponentTypeSpec); spec.Schema != "" {
		t.Error("invalid schema was attached")
	}

	if _, ok := findEntity(mutation, models.KindClusterTrait, models.ClusterNamespace, "autoscale"); !ok {
		t.Error("missing cluster trait")
	}
}

func TestRunOnce_LogsCarryRunIdentity(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	client := &fakeClient{namespaces: []sdk.NamespaceRecord{{Name: "acme"}}}
	applier := &fakeApplier{}

	eng := New(client, applier, zap.New(core), Config{
		LocationKey: "choreosync:test",
		Workers:     2,
	})

	if _, err := eng.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() unexpected error = %v", err)
	}

	finished := logs.FilterMessage("reconciliation run finished")
	if finished.Len() != 1 {
		t.Fatalf("run finished entries = %d, want 1", finished.Len())
	}

	fields := finished.All()[0].ContextMap()
	if fields[logging.FieldLocationKey] != "choreosync:test" {
		t.Errorf("location_key = %v, want choreosync:test", fields[logging.FieldLocationKey])
	}
	if runID, ok := fields[logging.FieldRunID].(string); !ok || runID == "" {
		t.Errorf("run_id = %v, want non-empty", fields[logging.FieldRunID])
	}
}

func TestRunOnce_MutationFailureFailsTheRun(t *testing.T) {
	client := &fakeClient{namespaces: []sdk.NamespaceRecord{{Name: "acme"}}}
	applier := &fakeApplier{err: errors.New("disk full")}

	result, err := newTestEngine(client, applier).RunOnce(context.Background())

	if !errors.Is(err, models.ErrRunFailed) {
		t.Errorf("RunOnce() error = %v, want ErrRunFailed", err)
	}
	if result.Outcome != models.RunOutcomeFailed {
		t.Errorf("Outcome = %q, want failed", result.Outcome)
	}
}
