package orchestrator

import "testing"

func TestSelectEnrichmentPluginsOrdersByDependency(t *testing.T) {
	plugins := selectEnrichmentPlugins([]string{"instance-of-resolver", "import-export-linker"})
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Name() != "ImportExportLinker" {
		t.Fatalf("expected ImportExportLinker to run first (InstanceOfResolver depends on it), got %s", plugins[0].Name())
	}
	if plugins[1].Name() != "InstanceOfResolver" {
		t.Fatalf("expected InstanceOfResolver second, got %s", plugins[1].Name())
	}
}

func TestSelectEnrichmentPluginsDefaultsWhenEmpty(t *testing.T) {
	plugins := selectEnrichmentPlugins(nil)
	if len(plugins) == 0 {
		t.Fatal("expected the default plugin set when no names are configured")
	}
}

func TestSelectEnrichmentPluginsSkipsUnknownNames(t *testing.T) {
	plugins := selectEnrichmentPlugins([]string{"does-not-exist", "import-export-linker"})
	if len(plugins) != 1 || plugins[0].Name() != "ImportExportLinker" {
		t.Fatalf("expected only the known plugin to survive, got %+v", plugins)
	}
}

func TestSelectValidatorsDefaultsWhenEmpty(t *testing.T) {
	validators := selectValidators(nil)
	if len(validators) != 2 {
		t.Fatalf("expected 2 default validators, got %d", len(validators))
	}
}

func TestSelectValidatorsHonorsExplicitSubset(t *testing.T) {
	validators := selectValidators([]string{"broken-imports"})
	if len(validators) != 1 || validators[0].Name() != "BrokenImportValidator" {
		t.Fatalf("expected only BrokenImportValidator, got %+v", validators)
	}
}

func TestSelectAnalyzersFiltersByConfiguredLanguage(t *testing.T) {
	analyzers := selectAnalyzers([]string{"go"})
	if len(analyzers) != 1 || analyzers[0].Language() != "go" {
		t.Fatalf("expected only the Go analyzer, got %+v", analyzers)
	}
}

func TestSelectAnalyzersTreatsTypescriptAsJavaScriptAlias(t *testing.T) {
	analyzers := selectAnalyzers([]string{"typescript"})
	if len(analyzers) != 1 || analyzers[0].Language() != "javascript" {
		t.Fatalf("expected typescript to select the javascript front end, got %+v", analyzers)
	}
}
