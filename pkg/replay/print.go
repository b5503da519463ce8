package replay

import (
	"strings"
	"time"
)

// FormatNames renders the duelist table as "a, b vs. c, d"
func FormatNames(teams [][]string) string {
	var sb strings.Builder
	for i, team := range teams {
		if i > 0 {
			sb.WriteString(" vs. ")
		}
		sb.WriteString(strings.Join(team, ", "))
	}
	return sb.String()
}

// FormatDate renders a yrpX seed field, which holds the recording time
func FormatDate(timestamp uint32, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return "Date: " + time.Unix(int64(timestamp), 0).In(loc).Format(time.DateTime)
}
