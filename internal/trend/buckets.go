package trend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// KeyFunc maps a record onto a bucket key.
type KeyFunc func(models.AttendanceRecord) string

func DayOfWeekKey(rec models.AttendanceRecord) string {
	return rec.Timestamp.Weekday().String()
}

// TimeBandKey buckets sessions into morning (<12), afternoon (12-17) and
// evening (>=17) by local start hour.
func TimeBandKey(rec models.AttendanceRecord) string {
	hour := rec.Timestamp.Hour()
	switch {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

func ISOWeekKey(rec models.AttendanceRecord) string {
	year, week := rec.Timestamp.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// RatesByBucket groups records by key, computes present/total per bucket and
// sorts descending by rate. Equal rates fall back to key order so the output
// is stable for a given record set.
func RatesByBucket(records []models.AttendanceRecord, key KeyFunc) []models.AttendanceBucket {
	present := make(map[string]int)
	total := make(map[string]int)

	for _, rec := range records {
		k := key(rec)
		total[k]++
		if rec.Status.Attended() {
			present[k]++
		}
	}

	buckets := make([]models.AttendanceBucket, 0, len(total))
	for k, t := range total {
		buckets = append(buckets, models.AttendanceBucket{
			Key:     k,
			Present: present[k],
			Total:   t,
			Rate:    float64(present[k]) / float64(t),
		})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Rate != buckets[j].Rate {
			return buckets[i].Rate > buckets[j].Rate
		}
		return bucketKeyLess(buckets[i].Key, buckets[j].Key)
	})

	return buckets
}

// bucketKeyLess orders ISO week keys chronologically and everything else
// lexically.
func bucketKeyLess(a, b string) bool {
	ai, aok := parseWeekKey(a)
	bi, bok := parseWeekKey(b)
	if aok && bok {
		return ai < bi
	}
	return a < b
}

func parseWeekKey(key string) (int, bool) {
	parts := strings.SplitN(key, "-W", 2)
	if len(parts) != 2 {
		return 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	week, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return year*100 + week, true
}
