package persist

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/telemetry"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

// Persister writes each (logical_name, physical_value) pair of a station's
// ResIds to <profile_history_station_dir>/<logical_name>.json (spec.md
// §4.7). It holds no mutable state beyond an optional logger; every call is
// independent, which is what lets the scheduler drive it from several
// goroutines without its own locking.
type Persister struct {
	log *telemetry.Logger
}

// New returns a Persister that does not log.
func New() *Persister { return &Persister{} }

// NewWithLogger returns a Persister that logs each write at debug level and
// write failures at error level, tagged with a "persist" component logger
// (SPEC_FULL.md §2.1). A nil logger behaves like New.
func NewWithLogger(logger *telemetry.Logger) *Persister {
	if logger == nil {
		return New()
	}
	return &Persister{log: logger.NewComponentLogger("persist")}
}

// Persist writes every entry of resIds for stationID under dirs. Write
// failures map to ClassInternal/CodeResIDWrite; JSON marshal failures map to
// ClassInternal/CodeResIDSerialize (spec.md §4.7: both are fatal to the run,
// since a partially-written resource-id set is unrecoverable bookkeeping
// corruption, not a per-station failure).
func (p *Persister) Persist(dirs destination.Dirs, stationID station.ID, resIds station.ResIds) error {
	dir := dirs.ProfileHistoryStationDir(stationID.String())

	for logical, physical := range resIds {
		data, err := json.MarshalIndent(physical, "", "  ")
		if err != nil {
			if p.log != nil {
				p.log.WithStationID(stationID.String()).WithError(err).Error("marshal resource id failed")
			}
			return trainerr.Internal(trainerr.CodeResIDSerialize, "marshal resource id "+string(logical), err).
				WithStation(stationID.String())
		}

		path := filepath.Join(dir, string(logical)+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			if p.log != nil {
				p.log.WithStationID(stationID.String()).WithError(err).Error("write resource id file failed")
			}
			return trainerr.Internal(trainerr.CodeResIDWrite, "write resource id file "+path, err).
				WithStation(stationID.String())
		}

		if p.log != nil {
			p.log.WithStationID(stationID.String()).WithField("logical", string(logical)).Debug("persisted resource id")
		}
	}

	return nil
}

// Entry is one (StationRtId, ResIds) tuple streamed on the persister
// channel by the scheduler as stations complete (spec.md §4.7
// "Concurrency").
type Entry struct {
	StationID station.ID
	ResIds    station.ResIds
}

// Run consumes entries off ch, persisting each under dirs, until ch is
// closed. It returns the first error encountered; the scheduler is
// responsible for draining the remainder of ch on error so the producer
// side does not block forever on a full unbuffered send (spec.md §4.7's
// channel is unbounded in the original; this repo's scheduler uses a
// buffered Go channel instead, documented in DESIGN.md).
func (p *Persister) Run(dirs destination.Dirs, ch <-chan Entry) error {
	for entry := range ch {
		if err := p.Persist(dirs, entry.StationID, entry.ResIds); err != nil {
			return err
		}
	}
	return nil
}
