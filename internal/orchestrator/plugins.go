package orchestrator

import (
	"path/filepath"
	"strings"

	"codekg/internal/enrichment"
	"codekg/internal/validation"
)

// extOf returns the lowercased file extension of path, including the dot.
func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// enrichmentPluginNames maps a plugin's kebab-case config name (not its
// declared Name()) to the plugin, so a workspace config can select a subset
// by name the way config.PluginsConfig.Enrichment lists them.
var enrichmentPluginNames = map[string]enrichment.Plugin{
	"import-export-linker": enrichment.ImportExportLinker{},
	"instance-of-resolver": enrichment.InstanceOfResolver{},
	"callback-resolver":    enrichment.CallbackCallResolver{},
	"closure-capture":      enrichment.ClosureCaptureEnricher{},
	"express-handler":      enrichment.ExpressHandlerLinker{},
}

// selectEnrichmentPlugins resolves names to plugins and topologically sorts
// them by declared Dependencies, so config-selected subsets still run in
// dependency order even if listed out of order. An unknown name is
// skipped — the orchestrator logs nothing fatal over a typo'd plugin name
// in a hand-edited config, since the Run loop itself already tolerates a
// plugin doing nothing.
func selectEnrichmentPlugins(names []string) []enrichment.Plugin {
	if len(names) == 0 {
		return enrichment.DefaultPlugins()
	}
	selected := make(map[string]enrichment.Plugin, len(names))
	for _, n := range names {
		if p, ok := enrichmentPluginNames[n]; ok {
			selected[p.Name()] = p
		}
	}
	return topoSortPlugins(selected)
}

// topoSortPlugins orders plugins so that every entry in a plugin's
// Dependencies() list (if also selected) appears before it. Cycles are
// broken by falling back to the input's iteration order for the
// unresolved remainder rather than deadlocking the pipeline.
func topoSortPlugins(selected map[string]enrichment.Plugin) []enrichment.Plugin {
	visited := make(map[string]bool, len(selected))
	var order []enrichment.Plugin

	var visit func(name string, stack map[string]bool)
	visit = func(name string, stack map[string]bool) {
		if visited[name] || stack[name] {
			return
		}
		p, ok := selected[name]
		if !ok {
			return
		}
		stack[name] = true
		for _, dep := range p.Dependencies() {
			visit(dep, stack)
		}
		delete(stack, name)
		if !visited[name] {
			visited[name] = true
			order = append(order, p)
		}
	}

	for name := range selected {
		visit(name, map[string]bool{})
	}
	return order
}

// validatorNames maps a validator's kebab-case config name (as listed in
// config.PluginsConfig.Validation) to the validator.
var validatorNames = map[string]validation.Validator{
	"dataflow-terminal-leaf": validation.DataFlowValidator{},
	"broken-imports":         validation.BrokenImportValidator{},
}

// selectValidators resolves names to validators; validators are read-only
// and independent, so no ordering beyond the input is imposed.
func selectValidators(names []string) []validation.Validator {
	if len(names) == 0 {
		return validation.DefaultValidators()
	}
	var selected []validation.Validator
	for _, n := range names {
		if v, ok := validatorNames[n]; ok {
			selected = append(selected, v)
		}
	}
	return selected
}
