package policygate

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/railgraph/railgraph/pkg/config"
	"github.com/rs/zerolog"
)

func TestNewEngine(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if eng == nil {
		t.Fatal("Engine is nil")
	}

	policies := eng.ListPolicies()
	if len(policies) == 0 {
		t.Fatal("No built-in policies loaded")
	}

	expectedPolicies := []string{
		"station-naming",
		"required-labels",
		"destructive-operations",
		"dependency-fanout",
	}

	for _, expected := range expectedPolicies {
		found := false
		for _, p := range policies {
			if p.Name == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected built-in policy not found: %s", expected)
		}
	}
}

func TestEvaluateStation_NamingPolicy(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	tests := []struct {
		name            string
		station         *config.StationConfig
		expectAllowed   bool
		expectViolation bool
	}{
		{
			name: "valid station name",
			station: &config.StationConfig{
				ID:   "test-1",
				Kind: "file",
				Name: "valid-station-name",
				Labels: map[string]string{
					"env":   "development",
					"owner": "test-team",
				},
			},
			expectAllowed:   true,
			expectViolation: false,
		},
		{
			name: "uppercase in name",
			station: &config.StationConfig{
				ID:   "test-2",
				Kind: "file",
				Name: "Invalid-Name",
				Labels: map[string]string{
					"env":   "development",
					"owner": "test-team",
				},
			},
			expectAllowed:   false,
			expectViolation: true,
		},
		{
			name: "name with underscores",
			station: &config.StationConfig{
				ID:   "test-3",
				Kind: "file",
				Name: "invalid_name",
				Labels: map[string]string{
					"env":   "development",
					"owner": "test-team",
				},
			},
			expectAllowed:   false,
			expectViolation: true,
		},
		{
			name: "name too short",
			station: &config.StationConfig{
				ID:   "test-4",
				Kind: "file",
				Name: "ab",
				Labels: map[string]string{
					"env":   "development",
					"owner": "test-team",
				},
			},
			expectAllowed:   false,
			expectViolation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eng.EvaluateStation(context.Background(), tt.station)
			if err != nil {
				t.Fatalf("Evaluation failed: %v", err)
			}

			if result.Allowed != tt.expectAllowed {
				t.Errorf("Expected allowed=%v, got %v", tt.expectAllowed, result.Allowed)
			}

			hasViolation := len(result.Violations) > 0
			if hasViolation != tt.expectViolation {
				t.Errorf("Expected violation=%v, got %v violations: %+v",
					tt.expectViolation, hasViolation, result.Violations)
			}
		})
	}
}

func TestEvaluateStation_RequiredLabels(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	tests := []struct {
		name            string
		station         *config.StationConfig
		expectAllowed   bool
		expectViolation bool
	}{
		{
			name: "all required labels present",
			station: &config.StationConfig{
				ID:   "test-1",
				Kind: "file",
				Name: "test-station",
				Labels: map[string]string{
					"env":   "production",
					"owner": "platform-team",
				},
			},
			expectAllowed:   true,
			expectViolation: false,
		},
		{
			name: "missing env label",
			station: &config.StationConfig{
				ID:   "test-2",
				Kind: "file",
				Name: "test-station",
				Labels: map[string]string{
					"owner": "platform-team",
				},
			},
			expectAllowed:   false,
			expectViolation: true,
		},
		{
			name: "missing owner label",
			station: &config.StationConfig{
				ID:   "test-3",
				Kind: "file",
				Name: "test-station",
				Labels: map[string]string{
					"env": "production",
				},
			},
			expectAllowed:   false,
			expectViolation: true,
		},
		{
			name: "invalid env value",
			station: &config.StationConfig{
				ID:   "test-4",
				Kind: "file",
				Name: "test-station",
				Labels: map[string]string{
					"env":   "invalid",
					"owner": "platform-team",
				},
			},
			expectAllowed:   false,
			expectViolation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eng.EvaluateStation(context.Background(), tt.station)
			if err != nil {
				t.Fatalf("Evaluation failed: %v", err)
			}

			if result.Allowed != tt.expectAllowed {
				t.Errorf("Expected allowed=%v, got %v. Violations: %+v",
					tt.expectAllowed, result.Allowed, result.Violations)
			}

			hasViolation := len(result.Violations) > 0
			if hasViolation != tt.expectViolation {
				t.Errorf("Expected violation=%v, got %v violations: %+v",
					tt.expectViolation, hasViolation, result.Violations)
			}
		})
	}
}

func TestEvaluateRun_DependencyFanout(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	run := &RunPlan{
		ID:         "test-run",
		StationIDs: []string{"base"},
		Stations: []config.StationConfig{
			{ID: "base", Kind: "file", Name: "base-station"},
		},
	}

	result, err := eng.EvaluateRun(context.Background(), run)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}

	if result == nil {
		t.Fatal("Result is nil")
	}
}

func TestEnableDisablePolicy(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	policyName := "station-naming"

	err = eng.DisablePolicy(policyName)
	if err != nil {
		t.Fatalf("Failed to disable policy: %v", err)
	}

	policy, err := eng.GetPolicy(policyName)
	if err != nil {
		t.Fatalf("Failed to get policy: %v", err)
	}

	if policy.Enabled {
		t.Error("Policy should be disabled")
	}

	station := &config.StationConfig{
		ID:   "test-1",
		Kind: "file",
		Name: "INVALID_NAME",
		Labels: map[string]string{
			"env":   "development",
			"owner": "test-team",
		},
	}

	result, err := eng.EvaluateStation(context.Background(), station)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}

	for _, v := range result.Violations {
		if v.Policy == policyName {
			t.Error("Disabled policy should not generate violations")
		}
	}

	err = eng.EnablePolicy(policyName)
	if err != nil {
		t.Fatalf("Failed to enable policy: %v", err)
	}

	policy, err = eng.GetPolicy(policyName)
	if err != nil {
		t.Fatalf("Failed to get policy: %v", err)
	}

	if !policy.Enabled {
		t.Error("Policy should be enabled")
	}
}

func TestReloadPolicies(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	initialCount := len(eng.ListPolicies())

	err = eng.ReloadPolicies(context.Background())
	if err != nil {
		t.Fatalf("Failed to reload policies: %v", err)
	}

	afterReloadCount := len(eng.ListPolicies())

	if initialCount != afterReloadCount {
		t.Errorf("Expected %d policies after reload, got %d", initialCount, afterReloadCount)
	}
}

func TestListPolicies(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	policies := eng.ListPolicies()

	if len(policies) == 0 {
		t.Fatal("No policies returned")
	}

	for _, p := range policies {
		if p.Name == "" {
			t.Error("Policy has empty name")
		}
		if p.Rego == "" {
			t.Error("Policy has empty Rego code")
		}
		if p.CreatedAt.IsZero() {
			t.Error("Policy has zero CreatedAt")
		}
	}
}

func TestEvaluateConfig(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	cfg := &config.ParsedConfig{
		Stations: []config.StationConfig{
			{
				ID:     "station-1",
				Kind:   "file",
				Name:   "valid-name",
				Config: json.RawMessage(`{}`),
				Labels: map[string]string{
					"env":   "production",
					"owner": "platform-team",
				},
			},
			{
				ID:     "station-2",
				Kind:   "file",
				Name:   "INVALID-NAME",
				Config: json.RawMessage(`{}`),
				Labels: map[string]string{
					"env":   "production",
					"owner": "platform-team",
				},
			},
		},
	}

	result, err := eng.Evaluate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}

	if result.Allowed {
		t.Error("Expected config to be rejected due to naming violation")
	}

	if len(result.Violations) == 0 {
		t.Error("Expected at least one violation")
	}

	foundNamingViolation := false
	for _, v := range result.Violations {
		if v.Policy == "station-naming" {
			foundNamingViolation = true
			break
		}
	}

	if !foundNamingViolation {
		t.Error("Expected a naming policy violation")
	}
}
