package analytics

import (
	"math"

	"github.com/coursehub/backend/core"
)

// AverageGrade is the mean of grades rounded to 2 decimals, or 0 when there are none.
func AverageGrade(grades []float64) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g
	}
	return core.Round2(sum / float64(len(grades)))
}

// CompletionRate is the share of expected submissions (one per student per assignment)
// that were graded, as a whole percentage. It is 0 when nothing is expected.
func CompletionRate(graded, enrollments, assignments int) int {
	expected := enrollments * assignments
	if expected == 0 {
		return 0
	}
	return percent(graded, expected)
}

// SubmissionRate is submitted out of total as a whole percentage, 0 when total is 0.
func SubmissionRate(submitted, total int) int {
	if total == 0 {
		return 0
	}
	return percent(submitted, total)
}

// Percentage expresses grade relative to maxGrade out of 100.
func Percentage(grade, maxGrade float64) float64 {
	if maxGrade <= 0 {
		return 0
	}
	return grade / maxGrade * 100
}

func percent(n, d int) int {
	return int(math.Round(float64(n) / float64(d) * 100))
}
