// Package stats computes supplementary fairness analytics over a solved
// Schedule — a Gini-coefficient view of workload balance that goes
// beyond the Fairness constraint's own max-min spread bound (§4.5.4).
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/shiftsolver/core/pkg/model"
)

// FairnessMetrics summarizes how evenly a schedule distributed workload
// and undesirable shifts across its workers.
type FairnessMetrics struct {
	WorkloadGini        float64 // 0 = perfectly even, 1 = maximally uneven
	WorkloadVariance    float64
	WorkloadStdDev      float64
	AvgHoursPerWorker   float64
	MaxHours            float64
	MinHours            float64
	HoursRange          float64
	UndesirableGini     float64
	WorkerStats         []WorkerStat
	OverallFairnessScore float64 // 0-100, higher is fairer
}

// WorkerStat is one worker's contribution to the schedule.
type WorkerStat struct {
	WorkerID      string
	WorkerName    string
	TotalHours    float64
	ShiftCount    int
	Undesirable   int
	WeekendShifts int
	Deviation     float64 // percent deviation from the average hours
}

// Analyzer computes FairnessMetrics from a solved Schedule.
type Analyzer struct{}

// NewAnalyzer returns a ready-to-use Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze walks every assignment in schedule and produces fairness
// metrics keyed by worker.
func (a *Analyzer) Analyze(schedule model.Schedule) FairnessMetrics {
	if len(schedule.Workers) == 0 {
		return FairnessMetrics{OverallFairnessScore: 100}
	}

	shiftTypeByID := make(map[string]model.ShiftType, len(schedule.ShiftTypes))
	for _, st := range schedule.ShiftTypes {
		shiftTypeByID[st.ID] = st
	}

	statByWorker := make(map[string]*WorkerStat, len(schedule.Workers))
	for _, w := range schedule.Workers {
		statByWorker[w.ID] = &WorkerStat{WorkerID: w.ID, WorkerName: w.Name}
	}

	for _, period := range schedule.Periods {
		for workerID, assignments := range period.Assignments {
			stat, ok := statByWorker[workerID]
			if !ok {
				stat = &WorkerStat{WorkerID: workerID, WorkerName: workerID}
				statByWorker[workerID] = stat
			}
			for _, assignment := range assignments {
				st, known := shiftTypeByID[assignment.ShiftTypeID]
				if known {
					stat.TotalHours += st.DurationHours
				}
				stat.ShiftCount++
				if known && st.IsUndesirable {
					stat.Undesirable++
				}
				if isWeekend(assignment.Date) {
					stat.WeekendShifts++
				}
			}
		}
	}

	stats := make([]WorkerStat, 0, len(statByWorker))
	for _, s := range statByWorker {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TotalHours > stats[j].TotalHours })

	hours := make([]float64, len(stats))
	undesirable := make([]float64, len(stats))
	for i, s := range stats {
		hours[i] = s.TotalHours
		undesirable[i] = float64(s.Undesirable)
	}

	avgHours := mean(hours)
	variance := varianceOf(hours, avgHours)
	stdDev := math.Sqrt(variance)
	maxHours, minHours := rangeOf(hours)

	for i := range stats {
		if avgHours > 0 {
			stats[i].Deviation = (stats[i].TotalHours - avgHours) / avgHours * 100
		}
	}

	workloadGini := gini(hours)
	undesirableGini := gini(undesirable)
	overallScore := overallScore(workloadGini, undesirableGini, stdDev, avgHours)

	return FairnessMetrics{
		WorkloadGini:         workloadGini,
		WorkloadVariance:     variance,
		WorkloadStdDev:       stdDev,
		AvgHoursPerWorker:    avgHours,
		MaxHours:             maxHours,
		MinHours:             minHours,
		HoursRange:           maxHours - minHours,
		UndesirableGini:      undesirableGini,
		WorkerStats:          stats,
		OverallFairnessScore: overallScore,
	}
}

func isWeekend(t time.Time) bool {
	d := t.Weekday()
	return d == time.Saturday || d == time.Sunday
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func varianceOf(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSquares float64
	for _, v := range values {
		d := v - avg
		sumSquares += d * d
	}
	return sumSquares / float64(len(values))
}

func rangeOf(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}

// gini computes the Gini coefficient of values, 0 (perfectly equal) to 1
// (maximally unequal).
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	var g float64
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g /= float64(n) * sum
	return math.Max(0, math.Min(1, g))
}

// overallScore blends workload and undesirable-shift Gini with the
// coefficient of variation into a single 0-100 fairness score.
func overallScore(workloadGini, undesirableGini, stdDev, avgHours float64) float64 {
	const (
		workloadWeight    = 0.5
		undesirableWeight = 0.35
		cvWeight          = 0.15
	)

	workloadScore := (1 - workloadGini) * 100
	undesirableScore := (1 - undesirableGini) * 100

	cvScore := 100.0
	if avgHours > 0 {
		cv := stdDev / avgHours
		cvScore = math.Max(0, 100-cv*200)
	}

	score := workloadWeight*workloadScore + undesirableWeight*undesirableScore + cvWeight*cvScore
	return math.Max(0, math.Min(100, score))
}
