package policygate

import (
	"time"
)

// GetBuiltinPolicies returns all built-in policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		stationNamingPolicy(),
		requiredLabelsPolicy(),
		destructiveOperationsPolicy(),
		dependencyFanoutPolicy(),
	}
}

// stationNamingPolicy enforces station naming conventions.
func stationNamingPolicy() Policy {
	return Policy{
		Name:        "station-naming",
		Description: "Enforces station naming conventions (lowercase, alphanumeric, hyphens only)",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"naming", "conventions"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package railgraph.policies.naming

import rego.v1

deny contains violation if {
	input.station
	station := input.station

	not station.name
	violation := {
		"message": sprintf("station %s must have a name", [station.id]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	name := station.name

	lower(name) != name
	violation := {
		"message": sprintf("station name '%s' must be lowercase", [name]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	name := station.name

	not regex.match("^[a-z0-9-]+$", name)
	violation := {
		"message": sprintf("station name '%s' must contain only lowercase letters, numbers, and hyphens", [name]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	name := station.name

	regex.match("^-.*", name)
	violation := {
		"message": sprintf("station name '%s' must not start with a hyphen", [name]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	name := station.name

	regex.match(".*-$", name)
	violation := {
		"message": sprintf("station name '%s' must not end with a hyphen", [name]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	name := station.name

	count(name) < 3
	violation := {
		"message": sprintf("station name '%s' must be at least 3 characters long", [name]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	name := station.name

	count(name) > 63
	violation := {
		"message": sprintf("station name '%s' must not exceed 63 characters", [name]),
		"severity": "error",
		"station": station.id,
	}
}`,
	}
}

// requiredLabelsPolicy ensures critical labels are present.
func requiredLabelsPolicy() Policy {
	return Policy{
		Name:        "required-labels",
		Description: "Ensures critical labels (env, owner) are present on all stations",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"labels", "metadata"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package railgraph.policies.labels

import rego.v1

required_labels := ["env", "owner"]

deny contains violation if {
	input.station
	station := input.station

	not station.labels
	violation := {
		"message": sprintf("station %s must have labels", [station.id]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	some label in required_labels

	not station.labels[label]
	violation := {
		"message": sprintf("station %s missing required label: %s", [station.id, label]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	some label in required_labels

	station.labels[label] == ""
	violation := {
		"message": sprintf("station %s has empty required label: %s", [station.id, label]),
		"severity": "error",
		"station": station.id,
	}
}

deny contains violation if {
	input.station
	station := input.station
	env := station.labels.env

	not env in ["development", "staging", "production", "test"]
	violation := {
		"message": sprintf("station %s has invalid env label: %s (must be development, staging, production, or test)", [station.id, env]),
		"severity": "error",
		"station": station.id,
	}
}`,
	}
}

// destructiveOperationsPolicy prevents clean operations on critical stations
// in production without an explicit override.
func destructiveOperationsPolicy() Policy {
	return Policy{
		Name:        "destructive-operations",
		Description: "Prevents clean operations against critical stations in production",
		Severity:    SeverityCritical,
		Enabled:     true,
		Tags:        []string{"operations", "safety", "production"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package railgraph.policies.operations

import rego.v1

deny contains violation if {
	input.station
	input.context
	station := input.station
	context := input.context

	context.operation == "clean"
	context.environment == "production"
	not context.dry_run
	station.labels.critical == "true"

	violation := {
		"message": sprintf("cannot clean station %s marked critical in production", [station.id]),
		"severity": "critical",
		"station": station.id,
	}
}`,
	}
}

// dependencyFanoutPolicy warns when a single station has an unusually large
// number of dependents, which tends to indicate a poorly decomposed
// destination rather than a genuine shared prerequisite.
func dependencyFanoutPolicy() Policy {
	return Policy{
		Name:        "dependency-fanout",
		Description: "Warns when a run's dependency graph has a station with excessive fan-out (too many dependents)",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"dependencies", "structure"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package railgraph.policies.fanout

import rego.v1

max_dependents := 20

deny contains violation if {
	input.run
	run := input.run

	some base_id in run.station_ids
	dependents := [s |
		some s in run.stations
		some dep in s.dependencies
		dep.station_id == base_id
	]

	count(dependents) > max_dependents

	violation := {
		"message": sprintf("station %s has %d dependents, above the recommended maximum of %d", [base_id, count(dependents), max_dependents]),
		"severity": "warning",
		"station": base_id,
	}
}`,
	}
}
