package engine

import (
	"context"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/logging"
	"github.com/rashadism/choreosync/internal/metrics"
	"github.com/rashadism/choreosync/internal/promotion"
	"github.com/rashadism/choreosync/internal/translate"
	"github.com/rashadism/choreosync/models"
	"github.com/rashadism/choreosync/pkg/schema"
	"github.com/rashadism/choreosync/sdk"
)

// namespaceResult accumulates one namespace's contribution to a run. Each
// worker owns its result exclusively until the final join.
type namespaceResult struct {
	entities []models.Entity
	failures []models.KindFailure
}

func (r *namespaceResult) add(entities ...models.Entity) {
	r.entities = append(r.entities, entities...)
}

// isolate converts a per-kind fetch failure into a warning and an empty
// contribution for that (namespace, kind) pair. Returns true when err was
// non-nil so the caller can skip the kind's translation.
func (r *namespaceResult) isolate(log *zap.Logger, namespace, kind string, err error) bool {
	if err == nil {
		return false
	}
	log.Warn("resource fetch failed, kind contributes no entities this run",
		zap.String(logging.FieldKind, kind),
		zap.Error(err),
	)
	metrics.FetchFailures.WithLabelValues(namespace, kind).Inc()
	r.failures = append(r.failures, models.KindFailure{
		Namespace: namespace,
		Kind:      kind,
		Reason:    err.Error(),
	})
	return true
}

// namespaceSyncer fetches and translates every resource kind of one
// namespace. Fetch groups are isolated from one another: a failing group
// contributes zero entities and never aborts the rest of the namespace or the
// run.
type namespaceSyncer struct {
	client     PlatformClient
	translator *translate.Translator
	logger     *zap.Logger

	// servicePatterns matches component type names that are service-shaped
	// and therefore carry a workload with derivable API endpoints.
	servicePatterns []string
}

// sync crawls one namespace. The Domain entity is always emitted; every other
// kind is best effort.
func (s *namespaceSyncer) sync(ctx context.Context, rec sdk.NamespaceRecord) namespaceResult {
	namespace := rec.Name
	log := s.logger.With(zap.String(logging.FieldNamespace, namespace))

	var res namespaceResult
	res.add(s.translator.Domain(rec))

	// Environments are listed up front but translated last, once the
	// pipelines' promotion topology is known.
	envRecords, err := s.client.ListEnvironments(ctx, namespace)
	envsFailed := res.isolate(log, namespace, models.KindEnvironment, err)

	s.syncPlanes(ctx, log, namespace, &res)

	projects, err := s.client.ListProjects(ctx, namespace)
	projectsFailed := res.isolate(log, namespace, models.KindProject, err)

	pipelines, err := s.client.ListDeploymentPipelines(ctx, namespace)
	pipelinesFailed := res.isolate(log, namespace, models.KindDeploymentPipeline, err)

	envNames := make([]string, 0, len(envRecords))
	for _, env := range envRecords {
		envNames = append(envNames, env.Name)
	}

	// allPaths aggregates the namespace's promotion topology across
	// pipelines so each environment's outgoing targets can be attached.
	var allPaths []models.PromotionPath
	if !pipelinesFailed {
		refs := pipelineProjectRefs(pipelines, projects)
		for _, pipeline := range pipelines {
			paths := promotionPaths(pipeline.PromotionPaths)
			order, excluded := promotion.ResolveOrder(paths, envNames)
			if len(excluded) > 0 {
				log.Warn("promotion graph contains a cycle, affected environments excluded from ordering",
					zap.String("pipeline", pipeline.Name),
					zap.Strings("environments", excluded),
				)
				metrics.PromotionCycles.WithLabelValues(namespace, pipeline.Name).Add(float64(len(excluded)))
			}
			res.add(s.translator.DeploymentPipeline(namespace, pipeline, refs[pipeline.Name], order))
			allPaths = append(allPaths, paths...)
		}
	}

	if !envsFailed {
		for _, env := range envRecords {
			res.add(s.translator.Environment(namespace, env, promotion.TargetsFor(allPaths, env.Name)))
		}
	}

	if !projectsFailed {
		for _, project := range projects {
			res.add(s.translator.Project(namespace, project))
			s.syncComponents(ctx, log, namespace, project.Name, &res)
		}
	}

	types, err := s.client.ListComponentTypes(ctx, namespace)
	if !res.isolate(log, namespace, models.KindComponentType, err) {
		res.add(s.componentTypeEntities(ctx, log, types,
			func(ctx context.Context, name string) ([]byte, error) {
				return s.client.GetComponentTypeSchema(ctx, namespace, name)
			},
			func(rec sdk.ComponentTypeRecord, schemaDoc []byte, valid bool) models.Entity {
				return s.translator.ComponentType(namespace, rec, schemaDoc, valid)
			},
		)...)
	}

	traits, err := s.client.ListTraits(ctx, namespace)
	if !res.isolate(log, namespace, models.KindTrait, err) {
		for _, trait := range traits {
			res.add(s.translator.Trait(namespace, trait))
		}
	}

	workflows, err := s.client.ListWorkflows(ctx, namespace)
	if !res.isolate(log, namespace, models.KindWorkflow, err) {
		for _, workflow := range workflows {
			res.add(s.translator.Workflow(namespace, workflow))
		}
	}

	componentWorkflows, err := s.client.ListComponentWorkflows(ctx, namespace)
	if !res.isolate(log, namespace, models.KindComponentWorkflow, err) {
		for _, workflow := range componentWorkflows {
			res.add(s.translator.ComponentWorkflow(namespace, workflow))
		}
	}

	bindings, err := s.client.ListReleaseBindings(ctx, namespace)
	if !res.isolate(log, namespace, models.KindReleaseBinding, err) {
		for _, binding := range bindings {
			res.add(s.translator.ReleaseBinding(namespace, binding))
		}
	}

	return res
}

// syncPlanes fetches the three plane kinds, each isolated.
func (s *namespaceSyncer) syncPlanes(ctx context.Context, log *zap.Logger, namespace string, res *namespaceResult) {
	dataPlanes, err := s.client.ListDataPlanes(ctx, namespace)
	if !res.isolate(log, namespace, models.KindDataPlane, err) {
		for _, plane := range dataPlanes {
			res.add(s.translator.DataPlane(namespace, plane))
		}
	}

	buildPlanes, err := s.client.ListBuildPlanes(ctx, namespace)
	if !res.isolate(log, namespace, models.KindBuildPlane, err) {
		for _, plane := range buildPlanes {
			res.add(s.translator.BuildPlane(namespace, plane))
		}
	}

	observabilityPlanes, err := s.client.ListObservabilityPlanes(ctx, namespace)
	if !res.isolate(log, namespace, models.KindObservabilityPlane, err) {
		for _, plane := range observabilityPlanes {
			res.add(s.translator.ObservabilityPlane(namespace, plane))
		}
	}
}

// syncComponents fetches one project's components. Service-shaped components
// additionally attempt a workload fetch to derive API entities; a failing
// workload fetch is a fallback, not an error: the component is still emitted,
// just without derived APIs.
func (s *namespaceSyncer) syncComponents(ctx context.Context, log *zap.Logger, namespace, project string, res *namespaceResult) {
	components, err := s.client.ListComponents(ctx, namespace, project)
	if res.isolate(log, namespace, models.KindComponent, err) {
		return
	}

	for _, component := range components {
		if component.Project == "" {
			component.Project = project
		}

		var providesAPIs []string
		if s.serviceShaped(component.Type.Name) {
			workload, err := s.client.GetWorkload(ctx, namespace, project, component.Name)
			if err != nil {
				log.Debug("workload fetch failed, component emitted without derived APIs",
					zap.String(logging.FieldEntity, component.Name),
					zap.Error(err),
				)
			} else {
				apis := s.translator.APIs(namespace, component.Name, workload)
				for _, api := range apis {
					providesAPIs = append(providesAPIs, api.Name)
				}
				res.add(apis...)
			}
		}

		res.add(s.translator.Component(namespace, component, providesAPIs))
	}
}

// syncCluster fetches the cluster-scoped kinds. Failures are isolated under
// the cluster pseudo-namespace.
func (s *namespaceSyncer) syncCluster(ctx context.Context) namespaceResult {
	log := s.logger.With(zap.String(logging.FieldNamespace, models.ClusterNamespace))

	var res namespaceResult

	types, err := s.client.ListClusterComponentTypes(ctx)
	if !res.isolate(log, models.ClusterNamespace, models.KindClusterComponentType, err) {
		res.add(s.componentTypeEntities(ctx, log, types,
			s.client.GetClusterComponentTypeSchema,
			s.translator.ClusterComponentType,
		)...)
	}

	traits, err := s.client.ListClusterTraits(ctx)
	if !res.isolate(log, models.ClusterNamespace, models.KindClusterTrait, err) {
		for _, trait := range traits {
			res.add(s.translator.ClusterTrait(trait))
		}
	}

	return res
}

// componentTypeEntities translates component type records, fetching and
// compiling each type's parameter schema in parallel. A missing schema leaves
// the entity bare; one that fails to compile marks the entity instead of
// blocking it.
func (s *namespaceSyncer) componentTypeEntities(
	ctx context.Context,
	log *zap.Logger,
	records []sdk.ComponentTypeRecord,
	fetchSchema func(context.Context, string) ([]byte, error),
	build func(sdk.ComponentTypeRecord, []byte, bool) models.Entity,
) []models.Entity {
	entities := make([]models.Entity, len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec sdk.ComponentTypeRecord) {
			defer wg.Done()

			schemaDoc, err := fetchSchema(ctx, rec.Name)
			if err != nil {
				log.Debug("component type schema fetch failed",
					zap.String(logging.FieldEntity, rec.Name),
					zap.Error(err),
				)
				entities[i] = build(rec, nil, false)
				return
			}

			result := schema.Validate(schemaDoc)
			if !result.Valid {
				log.Warn("component type schema failed to compile",
					zap.String(logging.FieldEntity, rec.Name),
					zap.Error(result.Error),
				)
			}
			entities[i] = build(rec, schemaDoc, result.Valid)
		}(i, rec)
	}
	wg.Wait()

	return entities
}

// serviceShaped reports whether a component type name matches one of the
// configured service patterns.
func (s *namespaceSyncer) serviceShaped(typeName string) bool {
	name := strings.ToLower(typeName)
	for _, pattern := range s.servicePatterns {
		if matched, err := path.Match(strings.ToLower(pattern), name); err == nil && matched {
			return true
		}
	}
	return false
}

// promotionPaths converts a pipeline's wire topology into the resolver's form.
func promotionPaths(records []sdk.PromotionPathRecord) []models.PromotionPath {
	paths := make([]models.PromotionPath, 0, len(records))
	for _, record := range records {
		targets := make([]models.PromotionTarget, 0, len(record.TargetEnvironmentRefs))
		for _, target := range record.TargetEnvironmentRefs {
			targets = append(targets, models.PromotionTarget{
				Name:             target.Name,
				RequiresApproval: target.RequiresApproval,
			})
		}
		paths = append(paths, models.PromotionPath{
			Source:  record.SourceEnvironmentRef,
			Targets: targets,
		})
	}
	return paths
}
