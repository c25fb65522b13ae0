package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotKey identifies one bookable hour-long bucket as "YYYY-MM-DD-H".
// The hour is one of GridHours; no timezone is encoded.
type SlotKey string

// GridHours are the bookable hours of a day, matching the backend's grid.
var GridHours = []int{10, 12, 14, 16, 18, 20, 22}

// IsGridHour reports whether hour is one of the bookable grid hours.
func IsGridHour(hour int) bool {
	for _, h := range GridHours {
		if h == hour {
			return true
		}
	}
	return false
}

// EncodeSlot converts an ISO-8601 datetime string as delivered by the backend
// into a SlotKey. The hour is taken literally from the string; no timezone
// conversion is performed. Returns "" for input that cannot be split into
// date and time parts, so callers can filter bad entries out of a batch.
func EncodeSlot(iso string) SlotKey {
	if iso == "" {
		return ""
	}
	parts := strings.SplitN(iso, "T", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	hourToken := strings.SplitN(parts[1], ":", 2)[0]
	hour, err := strconv.Atoi(hourToken)
	if err != nil {
		return ""
	}
	return SlotKey(fmt.Sprintf("%s-%d", parts[0], hour))
}

// DecodeSlot converts a SlotKey back into an ISO-like local datetime string,
// e.g. "2024-01-23-14" -> "2024-01-23T14:00:00". The result carries no
// timezone marker. Returns "" for keys that do not split into at least a
// date and an hour.
func DecodeSlot(key SlotKey) string {
	parts := strings.Split(string(key), "-")
	if len(parts) < 4 {
		return ""
	}
	hour, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return ""
	}
	date := strings.Join(parts[len(parts)-4:len(parts)-1], "-")
	return fmt.Sprintf("%sT%02d:00:00", date, hour)
}

// SlotKeyFor builds the key for a given day ("YYYY-MM-DD") and hour.
func SlotKeyFor(dayKey string, hour int) SlotKey {
	return SlotKey(fmt.Sprintf("%s-%d", dayKey, hour))
}

// DecodeSlots decodes a set of keys, dropping any that are malformed.
func DecodeSlots(keys []SlotKey) []string {
	isoSlots := make([]string, 0, len(keys))
	for _, key := range keys {
		if iso := DecodeSlot(key); iso != "" {
			isoSlots = append(isoSlots, iso)
		}
	}
	return isoSlots
}
