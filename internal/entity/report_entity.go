package entity

import (
	"encoding/json"
	"sort"
	"time"
)

type Report struct {
	Id         int
	SessionId  string
	Idea       string
	UserId     string
	ResultJson json.RawMessage
	ReportMd   string
	CreatedAt  time.Time
}

// NextReportID returns the lowest non-negative integer not present in existing.
func NextReportID(existing []int) int {
	ids := append([]int(nil), existing...)
	sort.Ints(ids)

	next := 0
	for _, id := range ids {
		if id < next {
			continue
		}
		if id > next {
			break
		}
		next++
	}
	return next
}
