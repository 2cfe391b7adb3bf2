// Package fixtures provides the shared reference dataset used by tests and
// by dev mode. It models the City of Tshwane: twelve two-and-a-half
// hour shedding windows covering the day, four rotation groups, and a week
// of recorded stage history with gaps.
package fixtures

import (
	"fmt"

	"github.com/kvanzyl/shedwatch/internal/provider/memory"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

const (
	MunicipalityID = "64b6b9b30d09aa7756061a47"

	GroupOneID   = "64b6b9b30d09aa7756061b9d"
	GroupTwoID   = "64b6b9b30d09aa7756061a79"
	GroupThreeID = "64b6b9b30d09aa7756061a94"
	// GroupFourID is referenced by stage blocks but has no stored Group
	// record, so suburbs can never resolve to it.
	GroupFourID = "64b6b9b30d09aa7756061ab6"

	SuburbMuckleneukID    = "64b6b9b30d09aa7756061b30"
	SuburbNewlandsID      = "64b6b9b30d09aa7756061b7d"
	SuburbSoshanguveID    = "64b6b9b30d09aa7756061a63"
	SuburbMagalieskruinID = "64b6b9b30d09aa7756061a7b"
)

// NewTshwaneStore returns a memory store seeded with the full Tshwane
// dataset: municipality, suburbs, groups, schedules, and stage log.
func NewTshwaneStore() *memory.Store {
	s := memory.New()
	SeedTshwane(s)
	return s
}

// SeedTshwane loads the reference dataset into the given store.
func SeedTshwane(s *memory.Store) {
	SeedTshwaneRegion(s)
	s.AddStageLog(TshwaneStageLog()...)
}

// SeedTshwaneRegion loads the municipality, suburbs, groups, and schedules
// but leaves the stage log empty.
func SeedTshwaneRegion(s *memory.Store) {
	s.AddMunicipality(types.Municipality{
		ID:       MunicipalityID,
		Name:     "City of Tshwane",
		Features: []int64{1, 2, 3, 4},
	})

	s.AddSuburb(types.Suburb{ID: SuburbMuckleneukID, MunicipalityID: MunicipalityID, Name: "MUCKLENEUK", Features: []int64{1}})
	s.AddSuburb(types.Suburb{ID: SuburbNewlandsID, MunicipalityID: MunicipalityID, Name: "NEWLANDS", Features: []int64{2}})
	s.AddSuburb(types.Suburb{ID: SuburbSoshanguveID, MunicipalityID: MunicipalityID, Name: "SOSHANGUVE EAST", Features: []int64{}})
	s.AddSuburb(types.Suburb{ID: SuburbMagalieskruinID, MunicipalityID: MunicipalityID, Name: "MAGALIESKRUIN", Features: []int64{4}})

	s.AddGroup(types.Group{ID: GroupOneID, Number: 1, SuburbIDs: []string{SuburbMuckleneukID}})
	s.AddGroup(types.Group{ID: GroupTwoID, Number: 2, SuburbIDs: []string{SuburbNewlandsID}})
	s.AddGroup(types.Group{ID: GroupThreeID, Number: 3, SuburbIDs: []string{SuburbSoshanguveID}})

	for _, ts := range TshwaneSchedules() {
		s.AddSchedule(ts)
	}
}

// TshwaneSchedules builds the twelve daily windows. Each window opens on an
// even hour and closes two and a half hours later, so consecutive windows
// overlap by thirty minutes and the 22:00 window wraps past midnight. The
// stage labels on the four blocks rotate with each window (1234, 2341,
// 3412, 4123) while the group order stays fixed.
func TshwaneSchedules() []types.TimeSchedule {
	groups := []string{GroupOneID, GroupTwoID, GroupThreeID, GroupFourID}
	startHours := []int{20, 22, 0, 2, 4, 6, 8, 10, 12, 14, 16, 18}

	out := make([]types.TimeSchedule, 0, len(startHours))
	for i, h := range startHours {
		blocks := make([]types.StageBlock, 0, len(groups))
		for j, gid := range groups {
			rotation := make([]string, 31)
			for d := range rotation {
				rotation[d] = gid
			}
			blocks = append(blocks, types.StageBlock{
				Stage:    (i+j)%4 + 1,
				GroupIDs: rotation,
			})
		}
		out = append(out, types.TimeSchedule{
			ID:             fmt.Sprintf("650b19e81329313fc8b0c1%02x", 0x30+i),
			MunicipalityID: MunicipalityID,
			StartHour:      h,
			StartMinute:    0,
			StopHour:       (h + 2) % 24,
			StopMinute:     30,
			Stages:         blocks,
		})
	}
	return out
}

// TshwaneStageLog returns a week of recorded stage intervals. The timeline
// has three gaps where no stage was recorded.
func TshwaneStageLog() []types.StageLogEntry {
	triples := []struct {
		start, end int64
		stage      int
	}{
		{1694746800, 1694779200, 5},
		{1694822400, 1694833200, 0},
		{1694833200, 1694854800, 2},
		{1694854800, 1694872800, 0},
		{1694872800, 1694959200, 0},
		{1694959200, 1695031200, 2},
		{1695031200, 1695045600, 1},
		{1695045600, 1695092400, 3},
		{1695092400, 1695132000, 0},
		{1695132000, 1695150000, 3},
		{1695153600, 1695160800, 1},
		{1695160800, 1695178800, 0},
		{1695178800, 1695218400, 0},
		{1695254400, 1695265200, 1},
		{1695265200, 1695304800, 0},
		{1695304800, 1695351600, 3},
	}

	out := make([]types.StageLogEntry, 0, len(triples))
	for i, tr := range triples {
		out = append(out, types.StageLogEntry{
			ID:    fmt.Sprintf("650b1a741329313fc8b0c1%02x", 0x4c+i),
			Start: tr.start,
			End:   tr.end,
			Stage: tr.stage,
		})
	}
	return out
}

// TshwaneSeedEntry is the entry whose interval contains the left edge of the
// aggregator's seven-day window in the stats tests.
func TshwaneSeedEntry() types.StageLogEntry {
	return types.StageLogEntry{
		ID:    "650c24c257de8d37915d203c",
		Start: 1694660400,
		End:   1694746800,
		Stage: 6,
	}
}
