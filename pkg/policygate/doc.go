// Package policygate provides Open Policy Agent (OPA) integration for
// railgraph.
//
// This package enforces policy over station configuration and run plans
// using the Rego policy language. It includes built-in policies for common
// governance requirements and supports custom policy loading from disk,
// with hot reload via fsnotify.
//
// # Architecture
//
// The policy system consists of four main components:
//
//  1. Engine - Compiles and evaluates Rego policies
//  2. Loader - Loads policies from files, directories, and bundles
//  3. Types - Data structures for policies, violations, and results
//  4. Built-in Policies - Pre-defined policies for common requirements
//
// # Usage
//
// Creating a policy engine:
//
//	logger := zerolog.New(os.Stdout)
//	gate, err := policygate.NewEngine(logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Evaluating a station, typically right after CUE parsing and before a
// destination is built:
//
//	result, err := gate.Evaluate(ctx, parsedConfig)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !result.Allowed {
//	    for _, violation := range result.Violations {
//	        fmt.Printf("policy %s violated: %s\n", violation.Policy, violation.Message)
//	    }
//	}
//
// Loading custom policies:
//
//	paths := []string{
//	    "/etc/railgraph/policies",
//	    "/opt/policies/custom.rego",
//	}
//
//	err = gate.LoadPolicies(ctx, paths)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Built-in Policies
//
// The following policies are included by default:
//
//  1. station-naming - Enforces station naming conventions
//  2. required-labels - Ensures critical labels (env, owner) are present
//  3. destructive-operations - Blocks clean operations on critical stations in production
//  4. dependency-fanout - Warns when a station has excessive fan-out (too many dependents)
//
// # Custom Policies
//
// Custom policies can be written in Rego and loaded from files:
//
//	package custom.policies.backup
//
//	import rego.v1
//
//	deny contains violation if {
//	    input.station
//	    station := input.station
//
//	    station.labels.env == "production"
//	    not station.labels.backup
//
//	    violation := {
//	        "message": "production stations must have a backup label",
//	        "severity": "error",
//	        "station": station.id,
//	    }
//	}
//
// # Policy Evaluation Points
//
// The Engine has one method for each point where a caller can gate the
// railgraph workflow:
//
//  1. Configuration validation - Evaluate, before a destination is built
//  2. Run evaluation - EvaluateRun, before a train run starts
//  3. Station evaluation - EvaluateStation, before a station's work_fn executes
//
// The train and scheduler packages do not call the Engine; policies are
// evaluated only where a caller invokes these methods.
//
// # Severity Levels
//
// Violations have four severity levels:
//
//   - info: Informational messages
//   - warning: Issues that should be reviewed but don't block operations
//   - error: Issues that block operations
//   - critical: Severe issues requiring immediate attention
//
// # Hot Reload
//
// The loader supports watching policy files for changes and reloading
// automatically:
//
//	loader := policygate.NewLoader(logger)
//	err = loader.Watch(ctx, paths, func(policies []policygate.Policy) error {
//	    return gate.LoadPolicies(ctx, paths)
//	})
//
// # Performance
//
// The loader caches parsed policies by file path. Each evaluation compiles
// the policy's Rego module again; the engine does not reuse a prepared
// query across evaluations.
//
// # Thread Safety
//
// Engine and Loader are safe for concurrent use.
package policygate
