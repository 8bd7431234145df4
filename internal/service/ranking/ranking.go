// Package ranking derives class rankings, averages and balances from lists
// that were already fetched.
package ranking

import (
	"SchoolDesk/entity"
	"sort"
)

// Ranked is one row of a ranking table.
type Ranked[T any] struct {
	Item  T       `json:"item"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Rank orders items by descending score. Ties keep their input order and
// still get distinct sequential ranks.
func Rank[T any](items []T, score func(T) float64) []Ranked[T] {
	out := make([]Ranked[T], len(items))
	for i, item := range items {
		out[i] = Ranked[T]{Item: item, Score: score(item)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// RankGrades ranks grade records by score, falling back to average.
func RankGrades(grades []entity.Grade) []Ranked[entity.Grade] {
	return Rank(grades, entity.Grade.Value)
}

// Average is the coefficient-weighted mean of the grade values. A missing
// or non-positive coefficient counts as 1.
func Average(grades []entity.Grade) float64 {
	var sum, weights float64
	for _, g := range grades {
		c := g.Coefficient
		if c <= 0 {
			c = 1
		}
		sum += g.Value() * c
		weights += c
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// StudentAverage is one student's weighted average in a classroom.
type StudentAverage struct {
	StudentID int             `json:"student_id"`
	Student   *entity.Student `json:"student,omitempty"`
	Average   float64         `json:"average"`
	Grades    int             `json:"grades"`
}

// ClassRanking groups grades per student, in order of first appearance, and
// ranks the students by their average.
func ClassRanking(grades []entity.Grade) []Ranked[StudentAverage] {
	order := make([]int, 0)
	byStudent := make(map[int][]entity.Grade)
	students := make(map[int]*entity.Student)
	for _, g := range grades {
		if _, ok := byStudent[g.StudentID]; !ok {
			order = append(order, g.StudentID)
		}
		byStudent[g.StudentID] = append(byStudent[g.StudentID], g)
		if g.Student != nil && students[g.StudentID] == nil {
			students[g.StudentID] = g.Student
		}
	}

	averages := make([]StudentAverage, 0, len(order))
	for _, id := range order {
		averages = append(averages, StudentAverage{
			StudentID: id,
			Student:   students[id],
			Average:   Average(byStudent[id]),
			Grades:    len(byStudent[id]),
		})
	}
	return Rank(averages, func(a StudentAverage) float64 { return a.Average })
}

// Balance is what remains to be paid.
type Balance struct {
	StudentID int     `json:"student_id"`
	TotalDue  float64 `json:"total_due"`
	TotalPaid float64 `json:"total_paid"`
	Remaining float64 `json:"remaining"`
}

func NewBalance(summary entity.PaymentSummary) Balance {
	return Balance{
		StudentID: summary.StudentID,
		TotalDue:  summary.TotalDue,
		TotalPaid: summary.TotalPaid,
		Remaining: summary.TotalDue - summary.TotalPaid,
	}
}
