package engine

import "github.com/rashadism/choreosync/sdk"

// pipelineProjectRefs maps each pipeline name to the projects referencing it.
//
// Several projects in a namespace may reference the same pipeline; exactly one
// pipeline entity is emitted per name, carrying the union of referencing
// project names with first-seen order preserved and no duplicates. A pipeline
// referenced by no project still gets an entry with an empty list.
func pipelineProjectRefs(pipelines []sdk.DeploymentPipelineRecord, projects []sdk.ProjectRecord) map[string][]string {
	refs := make(map[string][]string, len(pipelines))

	for _, pipeline := range pipelines {
		names := []string{}
		seen := make(map[string]bool)
		for _, project := range projects {
			if project.DeploymentPipelineRef != pipeline.Name || seen[project.Name] {
				continue
			}
			seen[project.Name] = true
			names = append(names, project.Name)
		}
		refs[pipeline.Name] = names
	}
	return refs
}
