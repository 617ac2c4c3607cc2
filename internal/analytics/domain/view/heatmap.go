package view

import (
	"sort"
	"time"

	dataset "energy-audit/internal/dataset/domain"
)

type dayHour struct {
	day  time.Time
	hour int
}

// HeatMap aggregates mean consumption into a calendar-day by hour-of-day
// grid. Only days and hours present in the data get an axis entry; pairs
// that never occur stay nil.
func HeatMap(ds *dataset.Dataset) (*HeatMapView, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	sums := map[dayHour]float64{}
	counts := map[dayHour]int{}
	daysSeen := map[time.Time]struct{}{}
	hoursSeen := map[int]struct{}{}
	for _, r := range ds.Readings() {
		key := dayHour{day: dataset.DayOf(r.Timestamp), hour: r.Timestamp.Hour()}
		sums[key] += r.Value
		counts[key]++
		daysSeen[key.day] = struct{}{}
		hoursSeen[key.hour] = struct{}{}
	}

	days := make([]time.Time, 0, len(daysSeen))
	for day := range daysSeen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	hours := make([]int, 0, len(hoursSeen))
	for hour := range hoursSeen {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	out := &HeatMapView{Title: "Consumption heat map", Hours: hours}
	for _, day := range days {
		out.Days = append(out.Days, day.Format("2006-01-02"))
		row := make([]*float64, len(hours))
		for i, hour := range hours {
			key := dayHour{day: day, hour: hour}
			if n := counts[key]; n > 0 {
				mean := sums[key] / float64(n)
				row[i] = &mean
			}
		}
		out.Cells = append(out.Cells, row)
	}
	return out, nil
}
