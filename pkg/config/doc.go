// Package config provides CUE configuration parsing and Starlark evaluation
// for railgraph destinations.
//
// # Overview
//
// The config package parses CUE files into a ParsedConfig, validates it
// against built-in schemas, and executes Starlark scripts for procedural
// configuration logic. ParsedConfig.BuildDestination then resolves each
// station's Kind through a caller-supplied Registry of StationFactory
// values and assembles a destination.Destination ready to run.
//
// # Features
//
//   - CUE configuration parsing from files, directories, and inline content
//   - Schema validation with built-in schemas for stations, workspaces, and targets
//   - Starlark script execution for procedural configuration logic
//   - Type-safe configuration structures
//   - Error reporting with file locations and line numbers
//   - Configuration merging from multiple sources
//
// # Components
//
// CUEParser: parses CUE configuration files into a ParsedConfig.
//
// SchemaRegistry: manages CUE schemas for validation. Provides built-in schemas
// for common configuration patterns and supports custom schema registration.
//
// StarlarkEvaluator: safe Starlark script execution with timeout enforcement and
// sandboxing. Provides built-in functions and type conversion between Go and Starlark.
//
// # Usage Example
//
//	// Create a new parser
//	parser := config.NewCUEParser()
//
//	// Parse configuration files
//	cfg, err := parser.Evaluate(ctx, []string{"config.cue", "stations.cue"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Check struct-tag validation rules
//	if err := parser.Validate(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Build a destination from the parsed config
//	dest, err := cfg.BuildDestination(registry, destination.UseWorkingDir(), "default")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # CUE Configuration Structure
//
// railgraph uses CUE to define stations with strong typing and validation.
// A typical configuration includes:
//
//	workspace: {
//	    name: "my-destination"
//	    version: "1.0"
//	}
//
//	stations: {
//	    web_config: {
//	        kind: "file"
//	        name: "web server config"
//	        config: {
//	            rel_path: "app.conf"
//	            content:  "listen 8080\n"
//	        }
//	        target: {
//	            labels: {env: "prod", role: "web"}
//	        }
//	    }
//	}
//
// # Starlark Integration
//
// Starlark scripts can be embedded in CUE configurations for procedural logic:
//
//	# Generate multiple stations programmatically
//	def generate_configs(count):
//	    out = []
//	    for i in range(count):
//	        out.append({
//	            "id": "server_" + str(i),
//	            "name": "server-" + str(i),
//	        })
//	    return out
//
// # Schema Validation
//
// Built-in schemas enforce configuration correctness:
//
//   - Station schema: validates station definitions with required fields
//   - Workspace schema: validates workspace configuration
//   - Target schema: validates target selectors
//   - Dependency schema: validates station dependencies
//
// Custom schemas can be registered for domain-specific validation.
//
// # Error Handling
//
// All parsing and validation errors include detailed location information:
//
//	ValidationError{
//	    File: "config.cue",
//	    Line: 42,
//	    Column: 5,
//	    Path: "stations.web_config.config",
//	    Message: "field 'rel_path' is required",
//	    Severity: "error",
//	}
//
// # Security
//
// Starlark execution is sandboxed:
//   - No filesystem access
//   - No network access
//   - Timeout enforcement (default 30 seconds)
//   - Print statements suppressed
//   - Only safe built-in functions provided
//
// # Thread Safety
//
// All types in this package are safe for concurrent use.
package config
