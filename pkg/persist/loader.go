package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

// Loader reads back ResIds a prior create run persisted, for clean mode's
// check_fn/work_fn to act against (spec.md §9 supplemented feature: the
// original only specifies the write path, but clean cannot dismantle
// anything without knowing what it created).
type Loader struct{}

// NewLoader returns a Loader.
func NewLoader() *Loader { return &Loader{} }

// Load reads every "<logical>.json" file under stationID's profile history
// directory and returns them as a station.ResIds. A missing directory
// (station never ran a create) yields an empty, non-error result: clean is
// expected to run against destinations that were never fully created.
func (l *Loader) Load(dirs destination.Dirs, stationID station.ID) (station.ResIds, error) {
	dir := dirs.ProfileHistoryStationDir(stationID.String())

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return station.ResIds{}, nil
	}
	if err != nil {
		return nil, trainerr.Internal(trainerr.CodeResIDWrite, "read resource id dir "+dir, err).
			WithStation(stationID.String())
	}

	resIds := make(station.ResIds, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		logical := strings.TrimSuffix(entry.Name(), ".json")

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, trainerr.Internal(trainerr.CodeResIDWrite, "read resource id file "+path, err).
				WithStation(stationID.String())
		}

		var physical station.ResIdPhysical
		if err := json.Unmarshal(data, &physical); err != nil {
			return nil, trainerr.Internal(trainerr.CodeResIDSerialize, "unmarshal resource id file "+path, err).
				WithStation(stationID.String())
		}
		resIds[station.ResIdLogical(logical)] = physical
	}

	return resIds, nil
}
