// Package stationfns aggregates the built-in station kinds the declarative
// CUE authoring path supports (spec.md §2.4): file, dbrow, and upload.
// DefaultRegistry wires them into a config.Registry, the map
// ParsedConfig.BuildDestination needs to resolve each StationConfig.Kind to
// the station.Spec factory that builds it.
package stationfns

import (
	"github.com/railgraph/railgraph/pkg/config"
	"github.com/railgraph/railgraph/pkg/hostinv"
	"github.com/railgraph/railgraph/pkg/stationfns/dbrow"
	"github.com/railgraph/railgraph/pkg/stationfns/file"
	"github.com/railgraph/railgraph/pkg/stationfns/upload"
)

// DefaultRegistry returns the config.Registry mapping "file", "dbrow", and
// "upload" to their respective station.Spec factories. hosts resolves an
// upload station's host_id field to an SSH target; it may be nil if every
// upload station in the configuration supplies an inline ssh block instead.
func DefaultRegistry(hosts *hostinv.Registry) config.Registry {
	return config.Registry{
		"file":   file.Factory,
		"dbrow":  dbrow.Factory,
		"upload": upload.NewFactory(hosts),
	}
}
