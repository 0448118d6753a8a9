package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/graph"
	"github.com/railgraph/railgraph/pkg/station"
)

// StationConfig represents one station's configuration as parsed from CUE.
// It carries exactly what BuildDestination needs to construct a
// station.Spec via a StationFactory and wire it into a destination.Builder:
// unlike the teacher's ResourceConfig, it names no provider or OCI source —
// a station kind is resolved directly from Kind through a caller-supplied
// Registry, with no plugin boundary in between.
type StationConfig struct {
	// ID is the unique station identifier (e.g., "web_config").
	ID string `json:"id" validate:"required"`

	// Kind selects the StationFactory that builds this station's
	// station.Spec (e.g., "file", "dbrow", "upload").
	Kind string `json:"kind" validate:"required"`

	// Name is the human-readable name.
	Name string `json:"name" validate:"required"`

	// Config is the kind-specific configuration, decoded by the
	// StationFactory registered for Kind.
	Config json.RawMessage `json:"config" validate:"required"`

	// Labels are key-value pairs for organizing and selecting stations.
	Labels map[string]string `json:"labels,omitempty"`

	// Annotations are additional metadata.
	Annotations map[string]string `json:"annotations,omitempty"`

	// Dependencies lists the dependencies for this station.
	Dependencies []DependencyConfig `json:"dependencies,omitempty"`

	// Target specifies which hosts/targets this station applies to.
	Target TargetSelector `json:"target,omitempty"`
}

// EdgeKind mirrors graph.EdgeKind as a CUE/JSON-friendly string so
// StationConfig doesn't need to import the graph package's int enum
// directly in its wire representation.
type EdgeKind string

const (
	// EdgeLogic is a scheduling dependency: the target runs only after the
	// source completes.
	EdgeLogic EdgeKind = "logic"

	// EdgeContains is a lifetime-enclosure relationship; it does not affect
	// scheduling order.
	EdgeContains EdgeKind = "contains"
)

func (k EdgeKind) graphKind() (graph.EdgeKind, error) {
	switch k {
	case EdgeLogic, "":
		return graph.Logic, nil
	case EdgeContains:
		return graph.Contains, nil
	default:
		return 0, fmt.Errorf("config: unknown edge kind %q", k)
	}
}

// DependencyConfig represents a dependency relationship between stations.
type DependencyConfig struct {
	// StationID is the id of the station this depends on.
	StationID string `json:"station_id" validate:"required"`

	// Type is the edge kind (logic, contains).
	Type EdgeKind `json:"type" validate:"required,oneof=logic contains"`
}

// TargetSelector specifies which targets a station applies to.
type TargetSelector struct {
	// Hosts lists specific host IDs or patterns.
	Hosts []string `json:"hosts,omitempty"`

	// Labels matches targets with these labels.
	Labels map[string]string `json:"labels,omitempty"`

	// Selector is a label selector expression (e.g., "env=prod,role=web").
	Selector string `json:"selector,omitempty"`

	// All indicates this station applies to all targets.
	All bool `json:"all,omitempty"`
}

// WorkspaceConfig represents the workspace configuration.
type WorkspaceConfig struct {
	// Name is the workspace name.
	Name string `json:"name" validate:"required"`

	// Version is the configuration version.
	Version string `json:"version,omitempty"`

	// Variables are workspace-level variables.
	Variables map[string]interface{} `json:"variables,omitempty"`

	// Policy configures policy enforcement.
	Policy *PolicyConfig `json:"policy,omitempty"`

	// Metadata contains additional workspace metadata.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// PolicyConfig configures policy enforcement.
type PolicyConfig struct {
	// Enabled indicates if policy enforcement is enabled.
	Enabled bool `json:"enabled"`

	// Paths lists policy file paths.
	Paths []string `json:"paths,omitempty"`

	// Mode is the enforcement mode (advisory, enforcing).
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=advisory enforcing"`

	// OnViolation specifies the action on violation (warn, fail).
	OnViolation string `json:"on_violation,omitempty" validate:"omitempty,oneof=warn fail"`
}

// ParsedConfig represents the fully parsed configuration from CUE.
type ParsedConfig struct {
	// Workspace is the workspace configuration.
	Workspace WorkspaceConfig `json:"workspace"`

	// Stations are all stations defined in the configuration.
	Stations []StationConfig `json:"stations"`

	// SourceFiles are the CUE files that were parsed.
	SourceFiles []string `json:"source_files"`

	// ParsedAt is when the configuration was parsed.
	ParsedAt time.Time `json:"parsed_at"`

	// Errors lists any validation errors.
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	// File is the source file path.
	File string `json:"file,omitempty"`

	// Line is the line number (1-indexed).
	Line int `json:"line,omitempty"`

	// Column is the column number (1-indexed).
	Column int `json:"column,omitempty"`

	// Path is the CUE path to the error (e.g., "stations.web_server.config").
	Path string `json:"path,omitempty"`

	// Message is the error message.
	Message string `json:"message"`

	// Severity is the error severity (error, warning, info).
	Severity string `json:"severity" validate:"required,oneof=error warning info"`
}

// ConfigSource represents a source of CUE configuration.
type ConfigSource struct {
	// Type is the source type (file, directory, inline).
	Type string `json:"type" validate:"required,oneof=file directory inline"`

	// Path is the file or directory path.
	Path string `json:"path,omitempty"`

	// Content is the inline CUE content.
	Content string `json:"content,omitempty"`
}

// MergeOptions controls how multiple configurations are merged.
type MergeOptions struct {
	// AllowConflicts allows conflicting values (last wins).
	AllowConflicts bool `json:"allow_conflicts"`

	// IncludePaths filters which paths to merge.
	IncludePaths []string `json:"include_paths,omitempty"`

	// ExcludePaths filters which paths to exclude from merge.
	ExcludePaths []string `json:"exclude_paths,omitempty"`
}

// EvaluateOptions controls CUE evaluation behavior.
type EvaluateOptions struct {
	// Package is the CUE package to evaluate.
	Package string `json:"package,omitempty"`

	// Tags are CUE build tags (e.g., "env=prod").
	Tags []string `json:"tags,omitempty"`

	// Concrete requires all values to be concrete (no unresolved references).
	Concrete bool `json:"concrete"`

	// ValidateSchemas enables schema validation during evaluation.
	ValidateSchemas bool `json:"validate_schemas"`

	// AllowStarlark enables Starlark function execution.
	AllowStarlark bool `json:"allow_starlark"`

	// StarlarkTimeout is the timeout for Starlark execution.
	StarlarkTimeout time.Duration `json:"starlark_timeout,omitempty"`
}

// StarlarkContext provides context for Starlark execution.
type StarlarkContext struct {
	// Input is the input data passed to Starlark.
	Input map[string]interface{} `json:"input,omitempty"`

	// Timeout is the execution timeout.
	Timeout time.Duration `json:"timeout"`

	// AllowedModules lists allowed Starlark modules.
	AllowedModules []string `json:"allowed_modules,omitempty"`

	// Builtins are additional built-in functions to provide.
	Builtins map[string]interface{} `json:"builtins,omitempty"`
}

// StarlarkResult represents the result of Starlark execution.
type StarlarkResult struct {
	// Output is the output data from Starlark.
	Output map[string]interface{} `json:"output,omitempty"`

	// ExecutionTime is how long the script took to execute.
	ExecutionTime time.Duration `json:"execution_time"`

	// Error is any error that occurred.
	Error string `json:"error,omitempty"`
}

// StationFactory builds a station.Spec for id from a station kind's
// kind-specific JSON configuration. Each station kind package
// (pkg/stationfns/file, .../dbrow, .../upload) exposes a factory of this
// shape wrapping its own Spec constructor.
type StationFactory func(id station.ID, cfg json.RawMessage) (station.Spec, error)

// Registry maps a StationConfig's Kind to the factory that builds it.
type Registry map[string]StationFactory

// UnknownKindError reports a StationConfig naming a Kind with no registered
// factory.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("config: no station factory registered for kind %q", e.Kind)
}

// BuildDestination builds a destination.Destination from pc using registry
// to resolve each StationConfig's Kind to a station.Spec, applying
// WithProfile(profile) and policy to the underlying builder. Stations are
// added first, then dependency edges, so forward references within
// Stations (a station listing a dependency defined later in the slice)
// resolve correctly.
func (pc *ParsedConfig) BuildDestination(registry Registry, policy destination.WorkspacePolicy, profile string) (*destination.Destination, error) {
	builder := destination.NewBuilder().WithWorkspacePolicy(policy)
	if profile != "" {
		builder = builder.WithProfile(profile)
	}

	rtIDs := make(map[string]station.RtID, len(pc.Stations))
	for _, sc := range pc.Stations {
		factory, ok := registry[sc.Kind]
		if !ok {
			return nil, &UnknownKindError{Kind: sc.Kind}
		}

		id, err := station.NewID(sc.ID)
		if err != nil {
			return nil, fmt.Errorf("config: station %q: %w", sc.ID, err)
		}

		spec, err := factory(id, sc.Config)
		if err != nil {
			return nil, fmt.Errorf("config: build station %q: %w", sc.ID, err)
		}

		rtIDs[sc.ID] = builder.AddStation(spec)
	}

	for _, sc := range pc.Stations {
		from, ok := rtIDs[sc.ID]
		if !ok {
			continue
		}
		for _, dep := range sc.Dependencies {
			to, ok := rtIDs[dep.StationID]
			if !ok {
				return nil, fmt.Errorf("config: station %q depends on unknown station %q", sc.ID, dep.StationID)
			}
			kind, err := dep.Type.graphKind()
			if err != nil {
				return nil, err
			}
			builder = builder.AddEdge(to, from, kind)
		}
	}

	return builder.Build()
}
