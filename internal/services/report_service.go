package services

import (
	"math"
	"sort"

	"techwiz/internal/models"
	"techwiz/internal/repositories"
)

// Веса видов оценок при подсчёте итога по предмету.
const (
	weightAssignment = 0.2
	weightMiddle     = 0.3
	weightFinal      = 0.5
)

// SubjectSummary — итог по одному предмету.
type SubjectSummary struct {
	Subject    string  `json:"subject"`
	Assignment float64 `json:"assignment"`
	Middle     float64 `json:"middle"`
	Final      float64 `json:"final"`
	Total      float64 `json:"total"`
}

// ReportCard — табель: студент, предметы, GPA.
type ReportCard struct {
	Student  *models.StudentDetail `json:"student"`
	Subjects []SubjectSummary      `json:"subjects"`
	GPA      float64               `json:"gpa"`
}

// ReportService собирает табель успеваемости по оценкам студента.
type ReportService struct {
	students repositories.StudentRepository
}

func NewReportService(students repositories.StudentRepository) *ReportService {
	return &ReportService{students: students}
}

// BuildReportCard: итог по предмету — взвешенное среднее по видам оценок
// (20% задания, 30% рубежный, 50% итоговый); отсутствующий вид не тянет
// итог вниз — веса нормируются по имеющимся. GPA — среднее итогов,
// округлённое до одного знака.
func (s *ReportService) BuildReportCard(studentID int) (*ReportCard, error) {
	detail, err := s.students.GetByID(studentID)
	if err != nil {
		return nil, err
	}
	grades, err := s.students.ListGrades(studentID)
	if err != nil {
		return nil, err
	}

	type acc struct {
		sum   map[string]float64
		count map[string]int
	}
	bySubject := map[string]*acc{}
	for _, g := range grades {
		a, ok := bySubject[g.Subject]
		if !ok {
			a = &acc{sum: map[string]float64{}, count: map[string]int{}}
			bySubject[g.Subject] = a
		}
		a.sum[g.Kind] += g.Score
		a.count[g.Kind]++
	}

	subjects := make([]SubjectSummary, 0, len(bySubject))
	var gpaSum float64
	for subject, a := range bySubject {
		sum := SubjectSummary{Subject: subject}
		var total, weightUsed float64
		for _, kind := range []struct {
			name   string
			weight float64
			dst    *float64
		}{
			{models.GradeAssignment, weightAssignment, &sum.Assignment},
			{models.GradeMiddle, weightMiddle, &sum.Middle},
			{models.GradeFinal, weightFinal, &sum.Final},
		} {
			if a.count[kind.name] == 0 {
				continue
			}
			avg := a.sum[kind.name] / float64(a.count[kind.name])
			*kind.dst = round1(avg)
			total += kind.weight * avg
			weightUsed += kind.weight
		}
		if weightUsed > 0 {
			sum.Total = round1(total / weightUsed)
		}
		gpaSum += sum.Total
		subjects = append(subjects, sum)
	}

	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Subject < subjects[j].Subject })

	card := &ReportCard{Student: detail, Subjects: subjects}
	if len(subjects) > 0 {
		card.GPA = round1(gpaSum / float64(len(subjects)))
	}
	return card, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
