package booking

import (
	"strings"
	"time"
)

// TimeSlots offered for every service, in display order.
var TimeSlots = []string{
	"08:00-10:00",
	"10:00-12:00",
	"12:00-14:00",
	"14:00-16:00",
	"16:00-18:00",
}

func IsTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// SlotStart resolves date + slot into the slot's start instant.
func SlotStart(date, slot string, loc *time.Location) (time.Time, error) {
	start, _, _ := strings.Cut(slot, "-")
	return time.ParseInLocation("2006-01-02 15:04", date+" "+start, loc)
}
