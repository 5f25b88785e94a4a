package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
)

func reportFixture() (*ReportService, *fakeStudentRepo) {
	students := newFakeStudentRepo()
	students.byID[1] = &models.StudentDetail{
		Student:   models.Student{ID: 1, UserID: 10, ClassID: 3},
		ClassName: "5B",
		User:      &models.User{ID: 10, FirstName: "Kid", LastName: "One", Email: "kid@example.com"},
	}
	return NewReportService(students), students
}

func TestReportService_WeightedTotals(t *testing.T) {
	svc, students := reportFixture()
	students.grades[1] = []*models.Grade{
		{StudentID: 1, Subject: "Math", Kind: models.GradeAssignment, Score: 80},
		{StudentID: 1, Subject: "Math", Kind: models.GradeMiddle, Score: 90},
		{StudentID: 1, Subject: "Math", Kind: models.GradeFinal, Score: 70},
	}

	card, err := svc.BuildReportCard(1)
	require.NoError(t, err)
	require.Len(t, card.Subjects, 1)

	// 0.2*80 + 0.3*90 + 0.5*70 = 78
	assert.Equal(t, 78.0, card.Subjects[0].Total)
	assert.Equal(t, 78.0, card.GPA)
}

func TestReportService_AveragesWithinKind(t *testing.T) {
	svc, students := reportFixture()
	students.grades[1] = []*models.Grade{
		{StudentID: 1, Subject: "Math", Kind: models.GradeAssignment, Score: 70},
		{StudentID: 1, Subject: "Math", Kind: models.GradeAssignment, Score: 90},
		{StudentID: 1, Subject: "Math", Kind: models.GradeFinal, Score: 100},
	}

	card, err := svc.BuildReportCard(1)
	require.NoError(t, err)
	require.Len(t, card.Subjects, 1)

	s := card.Subjects[0]
	assert.Equal(t, 80.0, s.Assignment)
	// нет рубежных оценок: (0.2*80 + 0.5*100) / 0.7 ≈ 94.3
	assert.Equal(t, 94.3, s.Total)
}

func TestReportService_MissingKindDoesNotZeroTotal(t *testing.T) {
	svc, students := reportFixture()
	students.grades[1] = []*models.Grade{
		{StudentID: 1, Subject: "History", Kind: models.GradeFinal, Score: 90},
	}

	card, err := svc.BuildReportCard(1)
	require.NoError(t, err)
	assert.Equal(t, 90.0, card.Subjects[0].Total)
	assert.Equal(t, 90.0, card.GPA)
}

func TestReportService_GPARoundsToOneDecimal(t *testing.T) {
	svc, students := reportFixture()
	students.grades[1] = []*models.Grade{
		{StudentID: 1, Subject: "Math", Kind: models.GradeFinal, Score: 85},
		{StudentID: 1, Subject: "History", Kind: models.GradeFinal, Score: 90},
		{StudentID: 1, Subject: "Biology", Kind: models.GradeFinal, Score: 77},
	}

	card, err := svc.BuildReportCard(1)
	require.NoError(t, err)
	require.Len(t, card.Subjects, 3)

	// предметы отсортированы по имени
	assert.Equal(t, "Biology", card.Subjects[0].Subject)
	// (85+90+77)/3 = 84.0
	assert.Equal(t, 84.0, card.GPA)
}

func TestReportService_NoGrades(t *testing.T) {
	svc, _ := reportFixture()

	card, err := svc.BuildReportCard(1)
	require.NoError(t, err)
	assert.Empty(t, card.Subjects)
	assert.Equal(t, 0.0, card.GPA)
}

func TestReportService_UnknownStudent(t *testing.T) {
	svc, _ := reportFixture()

	_, err := svc.BuildReportCard(99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
