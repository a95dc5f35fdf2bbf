package action

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Separator joins the variant tag and its fields on the wire.
	Separator = "_"
	// TokenLimitBytes is the Telegram callback data payload limit.
	TokenLimitBytes = 64
)

// variant is one row of the authoritative table driving Decode. Adding an
// Action type without a row here fails the exhaustiveness test.
type variant struct {
	tag   string
	arity int
	build func(f []int64) Action
}

var variants = []variant{
	{"main_menu", 0, func([]int64) Action { return MainMenu{} }},
	{"list_tarantulas", 0, func([]int64) Action { return ListTarantulas{} }},
	{"feeding_schedule", 0, func([]int64) Action { return FeedingSchedule{} }},
	{"health_alerts", 0, func([]int64) Action { return HealthAlerts{} }},
	{"maintenance", 0, func([]int64) Action { return Maintenance{} }},
	{"colonies", 0, func([]int64) Action { return Colonies{} }},
	{"status_overview", 0, func([]int64) Action { return StatusOverview{} }},
	{"record_feeding", 0, func([]int64) Action { return RecordFeeding{} }},
	{"record_health_check", 0, func([]int64) Action { return RecordHealthCheck{} }},
	{"molt_history", 0, func([]int64) Action { return MoltHistory{} }},
	{"record_molt", 0, func([]int64) Action { return RecordMolt{} }},
	{"colony_maintenance", 0, func([]int64) Action { return ColonyMaintenance{} }},
	{"view_records", 0, func([]int64) Action { return ViewRecords{} }},
	{"view_feeding_records", 0, func([]int64) Action { return ViewFeedingRecords{} }},
	{"view_health_records", 0, func([]int64) Action { return ViewHealthRecords{} }},
	{"view_molt_records", 0, func([]int64) Action { return ViewMoltRecords{} }},
	{"feed_tarantula", 1, func(f []int64) Action { return FeedTarantula{TarantulaID: f[0]} }},
	{"health_check", 1, func(f []int64) Action { return HealthCheck{TarantulaID: f[0]} }},
	{"health_status", 2, func(f []int64) Action { return HealthStatus{TarantulaID: f[0], StatusID: f[1]} }},
	{"molt_simple", 1, func(f []int64) Action { return MoltSimple{TarantulaID: f[0]} }},
	{"colony_maintenance_menu", 1, func(f []int64) Action { return ColonyMaintenanceMenu{ColonyID: f[0]} }},
	{"feed_select_colony", 2, func(f []int64) Action { return FeedSelectColony{TarantulaID: f[0], ColonyID: f[1]} }},
	{"feed_confirm", 3, func(f []int64) Action { return FeedConfirm{TarantulaID: f[0], ColonyID: f[1], Count: f[2]} }},
	{"colony_count", 1, func(f []int64) Action { return ColonyCount{ColonyID: f[0]} }},
	{"colony_count_update", 2, func(f []int64) Action { return ColonyCountUpdate{ColonyID: f[0], Delta: f[1]} }},
}

// byLength holds the variant table sorted longest tag first so that a tag
// which extends another tag (colony_count_update vs colony_count) is always
// tried before its prefix.
var byLength []variant

func init() {
	byLength = make([]variant, len(variants))
	copy(byLength, variants)
	sort.SliceStable(byLength, func(i, j int) bool {
		return len(byLength[i].tag) > len(byLength[j].tag)
	})
}

// Tags returns every known variant tag in table order.
func Tags() []string {
	tags := make([]string, len(variants))
	for i, v := range variants {
		tags[i] = v.tag
	}
	return tags
}

// Encode renders the action as a callback token: the variant tag followed
// by its fields as base-10 integers, joined with the separator.
func Encode(a Action) (string, error) {
	fields := a.fields()
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, a.Tag())
	for _, f := range fields {
		parts = append(parts, strconv.FormatInt(f, 10))
	}

	token := strings.Join(parts, Separator)
	if len(token) > TokenLimitBytes {
		return "", fmt.Errorf("callback token exceeds %d byte limit: got %d", TokenLimitBytes, len(token))
	}

	return token, nil
}

// MustEncode is Encode for tokens known to fit the payload limit; it is
// used when rendering keyboards from trusted ids.
func MustEncode(a Action) string {
	token, err := Encode(a)
	if err != nil {
		panic(err)
	}
	return token
}

// Decode parses a callback token back into its Action. The longest matching
// tag wins; an exact match beats a prefix match. Field count and field
// syntax are validated against the variant table.
func Decode(token string) (Action, error) {
	if token == "" {
		return nil, &UnknownActionError{Token: token}
	}

	for _, v := range byLength {
		if token == v.tag {
			if v.arity != 0 {
				return nil, &ArityMismatchError{Tag: v.tag, Want: v.arity, Got: 0}
			}
			return v.build(nil), nil
		}

		if !strings.HasPrefix(token, v.tag+Separator) {
			continue
		}

		segments := strings.Split(token[len(v.tag)+len(Separator):], Separator)
		if len(segments) != v.arity {
			return nil, &ArityMismatchError{Tag: v.tag, Want: v.arity, Got: len(segments)}
		}

		fields := make([]int64, len(segments))
		for i, segment := range segments {
			value, err := strconv.ParseInt(segment, 10, 64)
			if err != nil {
				return nil, &FieldParseError{Tag: v.tag, Position: i, Segment: segment}
			}
			fields[i] = value
		}

		return v.build(fields), nil
	}

	return nil, &UnknownActionError{Token: token}
}
