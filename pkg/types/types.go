// Package types defines the public domain types for the shedwatch
// load-shedding engine.
package types

// PowerStatus tags a map geometry feature in a region status result.
type PowerStatus string

// PowerStatus values. Undefined means no suburb claims the feature.
const (
	PowerOff       PowerStatus = "off"
	PowerOn        PowerStatus = "on"
	PowerUndefined PowerStatus = "undefined"
)

// Municipality is a served municipal area. Features is the universe of map
// polygon identifiers rendered for the municipality; the engine only matches
// them against suburb feature sets, it never interprets the geometry itself.
type Municipality struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Features []int64 `json:"features,omitempty" yaml:"features,omitempty"`
}

// Suburb is a named area within a municipality. Features holds the map
// feature identifiers whose polygons belong to this suburb.
type Suburb struct {
	ID             string  `json:"id" yaml:"id"`
	MunicipalityID string  `json:"municipalityId" yaml:"municipalityId"`
	Name           string  `json:"name" yaml:"name"`
	Features       []int64 `json:"features,omitempty" yaml:"features,omitempty"`
}

// HasFeature reports whether the suburb's geometry set contains the feature.
func (s Suburb) HasFeature(id int64) bool {
	for _, f := range s.Features {
		if f == id {
			return true
		}
	}
	return false
}

// Group is a rotation bucket of suburbs that are cut together.
type Group struct {
	ID        string   `json:"id" yaml:"id"`
	Number    int      `json:"number" yaml:"number"`
	SuburbIDs []string `json:"suburbs" yaml:"suburbs"`
}

// StageBlock maps one stage level to a rotation array of group IDs indexed
// by calendar day-of-month minus one. The upstream data keys the rotation by
// day of month, not weekday; that quirk is preserved as-is.
type StageBlock struct {
	Stage    int      `json:"stage" yaml:"stage"`
	GroupIDs []string `json:"groups" yaml:"groups"`
}

// GroupOn returns the group ID scheduled for the given day of month (1..31),
// or "" when the rotation array has no slot for that day.
func (b StageBlock) GroupOn(dayOfMonth int) string {
	idx := dayOfMonth - 1
	if idx < 0 || idx >= len(b.GroupIDs) {
		return ""
	}
	return b.GroupIDs[idx]
}

// TimeSchedule is a municipality's fixed daily time-of-day window together
// with its per-stage group rotation. The window [start, stop) may wrap past
// midnight; start == stop never occurs in well-formed data.
type TimeSchedule struct {
	ID             string       `json:"id" yaml:"id"`
	MunicipalityID string       `json:"municipalityId" yaml:"municipalityId"`
	StartHour      int          `json:"startHour" yaml:"startHour"`
	StartMinute    int          `json:"startMinute" yaml:"startMinute"`
	StopHour       int          `json:"stopHour" yaml:"stopHour"`
	StopMinute     int          `json:"stopMinute" yaml:"stopMinute"`
	Stages         []StageBlock `json:"stages" yaml:"stages"`
}

// StageLogEntry records that a stage level was in force during
// [Start, End), both epoch seconds. Entries are written only by the stage
// timeline reconciler; after reconciliation they are non-overlapping.
type StageLogEntry struct {
	ID    string `json:"id"`
	Start int64  `json:"startTime"`
	End   int64  `json:"endTime"`
	Stage int    `json:"stage"`
}

// Contains reports whether the entry's interval contains the epoch second t.
func (e StageLogEntry) Contains(t int64) bool {
	return e.Start <= t && t < e.End
}

// StageRange is one authoritative {start, end, stage} triple from the
// external stage feed.
type StageRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
	Stage int   `json:"stage"`
}

// Interval is a half-open [Start, End) span in epoch seconds.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// RegionStatus partitions a municipality's suburbs by power state at one
// instant. Features is populated only when geometry tagging was requested.
type RegionStatus struct {
	MunicipalityID string                `json:"municipalityId"`
	Stage          int                   `json:"stage"`
	Off            []Suburb              `json:"off"`
	On             []Suburb              `json:"on"`
	Features       map[int64]PowerStatus `json:"features,omitempty"`
}

// MinuteTally is a pair of on/off minute totals.
type MinuteTally struct {
	On  int `json:"on"`
	Off int `json:"off"`
}

// DowntimeReport summarises a suburb's trailing-week outage minutes.
// Total.On + Total.Off is always 10080 (7 days of minutes); each weekday
// bucket sums to 1440.
type DowntimeReport struct {
	Suburb     Suburb                 `json:"suburb"`
	Total      MinuteTally            `json:"totalTime"`
	PerWeekday map[string]MinuteTally `json:"perDayTimes"`
}
