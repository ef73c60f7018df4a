// Package engine implements the reconciliation run: crawl every namespace of
// the platform API, translate what was found into catalog entities, and hand
// the complete set to the catalog store as one full mutation.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/logging"
	"github.com/rashadism/choreosync/internal/metrics"
	"github.com/rashadism/choreosync/internal/translate"
	"github.com/rashadism/choreosync/models"
	"github.com/rashadism/choreosync/sdk"
)

// PlatformClient is the slice of the platform API the engine consumes.
// *sdk.Client satisfies it; tests substitute fakes.
type PlatformClient interface {
	ListNamespaces(ctx context.Context) ([]sdk.NamespaceRecord, error)

	ListClusterComponentTypes(ctx context.Context) ([]sdk.ComponentTypeRecord, error)
	GetClusterComponentTypeSchema(ctx context.Context, name string) ([]byte, error)
	ListClusterTraits(ctx context.Context) ([]sdk.TraitRecord, error)

	ListEnvironments(ctx context.Context, namespace string) ([]sdk.EnvironmentRecord, error)
	ListDataPlanes(ctx context.Context, namespace string) ([]sdk.PlaneRecord, error)
	ListBuildPlanes(ctx context.Context, namespace string) ([]sdk.PlaneRecord, error)
	ListObservabilityPlanes(ctx context.Context, namespace string) ([]sdk.PlaneRecord, error)
	ListProjects(ctx context.Context, namespace string) ([]sdk.ProjectRecord, error)
	ListDeploymentPipelines(ctx context.Context, namespace string) ([]sdk.DeploymentPipelineRecord, error)
	ListComponents(ctx context.Context, namespace, project string) ([]sdk.ComponentRecord, error)
	GetWorkload(ctx context.Context, namespace, project, component string) (sdk.WorkloadRecord, error)
	ListComponentTypes(ctx context.Context, namespace string) ([]sdk.ComponentTypeRecord, error)
	GetComponentTypeSchema(ctx context.Context, namespace, name string) ([]byte, error)
	ListTraits(ctx context.Context, namespace string) ([]sdk.TraitRecord, error)
	ListWorkflows(ctx context.Context, namespace string) ([]sdk.WorkflowRecord, error)
	ListComponentWorkflows(ctx context.Context, namespace string) ([]sdk.WorkflowRecord, error)
	ListReleaseBindings(ctx context.Context, namespace string) ([]sdk.ReleaseBindingRecord, error)
}

// DefaultWorkers is the number of namespaces crawled concurrently when the
// configuration does not say otherwise.
const DefaultWorkers = 4

// defaultServicePatterns matches the platform's built-in service-shaped
// component type names.
var defaultServicePatterns = []string{"*service*"}

// Config carries the engine's run settings.
type Config struct {
	// LocationKey is the stable string identifying this synchronizer
	// instance. Every entity of every run is submitted under it.
	LocationKey string

	// DefaultOwner is the owner attributed to translated entities.
	DefaultOwner string

	// Workers bounds the number of namespaces crawled concurrently.
	// Zero means DefaultWorkers.
	Workers int

	// ServiceTypePatterns are glob patterns matched (case-insensitively)
	// against component type names to decide which components carry a
	// workload with derivable API endpoints. Empty means the default set.
	ServiceTypePatterns []string
}

// Engine runs reconciliation: one RunOnce call is one full crawl and one full
// mutation. The engine itself does not schedule or guard against overlapping
// runs; that is the scheduler's concern.
type Engine struct {
	client      PlatformClient
	applier     models.MutationApplier
	logger      *zap.Logger
	locationKey string
	workers     int
	syncer      *namespaceSyncer
}

// New creates an Engine writing to the given mutation applier.
func New(client PlatformClient, applier models.MutationApplier, logger *zap.Logger, config Config) *Engine {
	workers := config.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	patterns := config.ServiceTypePatterns
	if len(patterns) == 0 {
		patterns = defaultServicePatterns
	}

	translator := translate.New(translate.Config{
		LocationKey:  config.LocationKey,
		DefaultOwner: config.DefaultOwner,
	})

	return &Engine{
		client:      client,
		applier:     applier,
		logger:      logger,
		locationKey: config.LocationKey,
		workers:     workers,
		syncer: &namespaceSyncer{
			client:          client,
			translator:      translator,
			logger:          logger,
			servicePatterns: patterns,
		},
	}
}

// RunOnce performs one full reconciliation run.
//
// A failure to fetch the namespace list is fatal: nothing is submitted and
// the run is reported as failed. Any other fetch failure is isolated to its
// (namespace, kind) pair; the run still submits exactly one full mutation
// covering everything that was fetched successfully.
func (e *Engine) RunOnce(ctx context.Context) (models.RunResult, error) {
	runID := uuid.New().String()
	started := time.Now()
	log := e.logger.With(
		zap.String(logging.FieldRunID, runID),
		zap.String(logging.FieldLocationKey, e.locationKey),
	)

	log.Info("reconciliation run started")

	result := models.RunResult{
		RunID:     runID,
		StartedAt: started,
	}

	namespaces, err := e.client.ListNamespaces(ctx)
	if err != nil {
		result.Outcome = models.RunOutcomeFailed
		result.FinishedAt = time.Now()
		metrics.RunsTotal.WithLabelValues(models.RunOutcomeFailed).Inc()
		metrics.RunDuration.Observe(result.FinishedAt.Sub(started).Seconds())
		log.Error("namespace list fetch failed, no mutation submitted", zap.Error(err))
		return result, fmt.Errorf("%w: failed to fetch namespace list: %v", models.ErrRunFailed, err)
	}
	result.Namespaces = len(namespaces)

	clusterResult := e.syncer.syncCluster(ctx)
	namespaceResults := e.fanOut(ctx, namespaces)

	// Join in a fixed order: cluster first, then namespaces in platform
	// order, so the assembled set is deterministic for a given snapshot.
	located := make([]models.LocatedEntity, 0, len(clusterResult.entities))
	failures := append([]models.KindFailure(nil), clusterResult.failures...)
	for _, entity := range clusterResult.entities {
		located = append(located, models.LocatedEntity{Entity: entity, LocationKey: e.locationKey})
	}
	for _, res := range namespaceResults {
		for _, entity := range res.entities {
			located = append(located, models.LocatedEntity{Entity: entity, LocationKey: e.locationKey})
		}
		failures = append(failures, res.failures...)
	}
	result.Entities = len(located)
	result.Failures = failures

	mutation := models.Mutation{Type: models.MutationTypeFull, Entities: located}
	if err := e.applier.ApplyMutation(ctx, mutation); err != nil {
		result.Outcome = models.RunOutcomeFailed
		result.FinishedAt = time.Now()
		metrics.RunsTotal.WithLabelValues(models.RunOutcomeFailed).Inc()
		metrics.RunDuration.Observe(result.FinishedAt.Sub(started).Seconds())
		log.Error("mutation application failed", zap.Error(err))
		return result, fmt.Errorf("%w: failed to apply mutation: %v", models.ErrRunFailed, err)
	}

	result.Outcome = models.RunOutcomeSucceeded
	result.FinishedAt = time.Now()

	metrics.RunsTotal.WithLabelValues(models.RunOutcomeSucceeded).Inc()
	metrics.RunDuration.Observe(result.FinishedAt.Sub(started).Seconds())
	metrics.EntityCount.Reset()
	for kind, count := range countByKind(located) {
		metrics.EntityCount.WithLabelValues(kind).Set(float64(count))
	}

	log.Info("reconciliation run finished",
		zap.Int("namespaces", result.Namespaces),
		zap.Int("entities", result.Entities),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("duration", result.FinishedAt.Sub(started)),
	)
	return result, nil
}

// fanOut crawls the namespaces over a bounded worker pool, capturing each
// namespace's result in its input slot.
func (e *Engine) fanOut(ctx context.Context, namespaces []sdk.NamespaceRecord) []namespaceResult {
	results := make([]namespaceResult, len(namespaces))
	if len(namespaces) == 0 {
		return results
	}

	workers := e.workers
	if workers > len(namespaces) {
		workers = len(namespaces)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.syncer.sync(ctx, namespaces[i])
			}
		}()
	}
	for i := range namespaces {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func countByKind(located []models.LocatedEntity) map[string]int {
	counts := make(map[string]int)
	for _, entity := range located {
		counts[entity.Entity.Kind]++
	}
	return counts
}
