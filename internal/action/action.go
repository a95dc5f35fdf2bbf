// Package action defines the closed set of user intents carried on inline
// buttons and the codec that maps them to callback tokens.
package action

// Action is one user-triggerable intent from the closed variant set.
// Variants are immutable values; they are built directly when rendering
// keyboards or produced by Decode from an incoming callback token.
type Action interface {
	// Tag returns the stable wire identifier of the variant.
	Tag() string
	fields() []int64
}

// Zero-field menu actions.
type (
	MainMenu           struct{}
	ListTarantulas     struct{}
	FeedingSchedule    struct{}
	HealthAlerts       struct{}
	Maintenance        struct{}
	Colonies           struct{}
	StatusOverview     struct{}
	RecordFeeding      struct{}
	RecordHealthCheck  struct{}
	MoltHistory        struct{}
	RecordMolt         struct{}
	ColonyMaintenance  struct{}
	ViewRecords        struct{}
	ViewFeedingRecords struct{}
	ViewHealthRecords  struct{}
	ViewMoltRecords    struct{}
)

func (MainMenu) Tag() string           { return "main_menu" }
func (ListTarantulas) Tag() string     { return "list_tarantulas" }
func (FeedingSchedule) Tag() string    { return "feeding_schedule" }
func (HealthAlerts) Tag() string       { return "health_alerts" }
func (Maintenance) Tag() string        { return "maintenance" }
func (Colonies) Tag() string           { return "colonies" }
func (StatusOverview) Tag() string     { return "status_overview" }
func (RecordFeeding) Tag() string      { return "record_feeding" }
func (RecordHealthCheck) Tag() string  { return "record_health_check" }
func (MoltHistory) Tag() string        { return "molt_history" }
func (RecordMolt) Tag() string         { return "record_molt" }
func (ColonyMaintenance) Tag() string  { return "colony_maintenance" }
func (ViewRecords) Tag() string        { return "view_records" }
func (ViewFeedingRecords) Tag() string { return "view_feeding_records" }
func (ViewHealthRecords) Tag() string  { return "view_health_records" }
func (ViewMoltRecords) Tag() string    { return "view_molt_records" }

func (MainMenu) fields() []int64           { return nil }
func (ListTarantulas) fields() []int64     { return nil }
func (FeedingSchedule) fields() []int64    { return nil }
func (HealthAlerts) fields() []int64       { return nil }
func (Maintenance) fields() []int64        { return nil }
func (Colonies) fields() []int64           { return nil }
func (StatusOverview) fields() []int64     { return nil }
func (RecordFeeding) fields() []int64      { return nil }
func (RecordHealthCheck) fields() []int64  { return nil }
func (MoltHistory) fields() []int64        { return nil }
func (RecordMolt) fields() []int64         { return nil }
func (ColonyMaintenance) fields() []int64  { return nil }
func (ViewRecords) fields() []int64        { return nil }
func (ViewFeedingRecords) fields() []int64 { return nil }
func (ViewHealthRecords) fields() []int64  { return nil }
func (ViewMoltRecords) fields() []int64    { return nil }

// FeedTarantula opens the colony picker for feeding one tarantula.
type FeedTarantula struct {
	TarantulaID int64
}

func (FeedTarantula) Tag() string       { return "feed_tarantula" }
func (a FeedTarantula) fields() []int64 { return []int64{a.TarantulaID} }

// HealthCheck opens the status picker for one tarantula.
type HealthCheck struct {
	TarantulaID int64
}

func (HealthCheck) Tag() string       { return "health_check" }
func (a HealthCheck) fields() []int64 { return []int64{a.TarantulaID} }

// HealthStatus records the selected condition for one tarantula.
type HealthStatus struct {
	TarantulaID int64
	StatusID    int64
}

func (HealthStatus) Tag() string       { return "health_status" }
func (a HealthStatus) fields() []int64 { return []int64{a.TarantulaID, a.StatusID} }

// MoltSimple starts the molt-size conversation for one tarantula.
type MoltSimple struct {
	TarantulaID int64
}

func (MoltSimple) Tag() string       { return "molt_simple" }
func (a MoltSimple) fields() []int64 { return []int64{a.TarantulaID} }

// ColonyMaintenanceMenu opens the maintenance menu for one colony.
type ColonyMaintenanceMenu struct {
	ColonyID int64
}

func (ColonyMaintenanceMenu) Tag() string       { return "colony_maintenance_menu" }
func (a ColonyMaintenanceMenu) fields() []int64 { return []int64{a.ColonyID} }

// FeedSelectColony picks the colony the crickets will be taken from.
type FeedSelectColony struct {
	TarantulaID int64
	ColonyID    int64
}

func (FeedSelectColony) Tag() string       { return "feed_select_colony" }
func (a FeedSelectColony) fields() []int64 { return []int64{a.TarantulaID, a.ColonyID} }

// FeedConfirm applies a feeding of Count crickets from ColonyID.
type FeedConfirm struct {
	TarantulaID int64
	ColonyID    int64
	Count       int64
}

func (FeedConfirm) Tag() string       { return "feed_confirm" }
func (a FeedConfirm) fields() []int64 { return []int64{a.TarantulaID, a.ColonyID, a.Count} }

// ColonyCount starts the count-adjustment conversation for one colony.
type ColonyCount struct {
	ColonyID int64
}

func (ColonyCount) Tag() string       { return "colony_count" }
func (a ColonyCount) fields() []int64 { return []int64{a.ColonyID} }

// ColonyCountUpdate applies a signed stock delta to one colony.
type ColonyCountUpdate struct {
	ColonyID int64
	Delta    int64
}

func (ColonyCountUpdate) Tag() string       { return "colony_count_update" }
func (a ColonyCountUpdate) fields() []int64 { return []int64{a.ColonyID, a.Delta} }
