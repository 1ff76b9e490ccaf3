package services

import (
	"context"
	"testing"

	"github.com/prep-ease/quiz-service/internal/models"
)

func intPtr(v int) *int { return &v }

func addAssignment(repo *mockRepository, id, courseID uint, totalMarks int) *models.Assignment {
	a := &models.Assignment{ID: id, CourseID: courseID, Title: "hw", TotalMarks: totalMarks}
	repo.assignments = append(repo.assignments, a)
	return a
}

func addGradedSubmission(repo *mockRepository, a *models.Assignment, studentID string, score int) {
	repo.submissions = append(repo.submissions, &models.AssignmentSubmission{
		AssignmentID: a.ID,
		StudentID:    studentID,
		Score:        intPtr(score),
		Status:       models.SubmissionStatusGraded,
		Assignment:   a,
	})
}

func addAttempt(repo *mockRepository, quizID uint, courseID uint, studentID string, score int) {
	attempt := &models.QuizAttempt{
		QuizID:         quizID,
		StudentID:      studentID,
		CourseID:       courseID,
		Score:          score,
		TotalQuestions: 10,
		Status:         models.AttemptStatusPassed,
	}
	repo.attempts[attemptKey(studentID, quizID)] = attempt
}

func TestStudentPerformanceBlendsBothSides(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	a := addAssignment(repo, 1, 10, 50)
	addGradedSubmission(repo, a, "student-1", 40) // 80%
	addAttempt(repo, 1, 10, "student-1", 60)

	svc := NewPerformanceService(repo, nil, discardLogger())
	perf, err := svc.GetStudentPerformance(ctx, 10, "student-1")
	if err != nil {
		t.Fatalf("GetStudentPerformance() error = %v", err)
	}

	if perf.Assignments.AverageScore != 80 {
		t.Errorf("assignment average = %v, want 80", perf.Assignments.AverageScore)
	}
	if perf.Quizzes.AverageScore != 60 {
		t.Errorf("quiz average = %v, want 60", perf.Quizzes.AverageScore)
	}
	if perf.PerformanceScore != 70 {
		t.Errorf("PerformanceScore = %v, want 70", perf.PerformanceScore)
	}
	if perf.RiskStatus != RiskMedium {
		t.Errorf("RiskStatus = %s, want Medium", perf.RiskStatus)
	}
}

func TestStudentPerformanceQuizOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	addAttempt(repo, 1, 10, "student-1", 90)
	addAttempt(repo, 2, 10, "student-1", 70)

	svc := NewPerformanceService(repo, nil, discardLogger())
	perf, err := svc.GetStudentPerformance(ctx, 10, "student-1")
	if err != nil {
		t.Fatalf("GetStudentPerformance() error = %v", err)
	}

	if perf.Quizzes.Attempted != 2 {
		t.Errorf("Attempted = %d, want 2", perf.Quizzes.Attempted)
	}
	if perf.PerformanceScore != 80 {
		t.Errorf("PerformanceScore = %v, want 80 (quiz side alone)", perf.PerformanceScore)
	}
	if perf.RiskStatus != RiskLow {
		t.Errorf("RiskStatus = %s, want Low", perf.RiskStatus)
	}
}

func TestStudentPerformanceAssignmentOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	a := addAssignment(repo, 1, 10, 100)
	addGradedSubmission(repo, a, "student-1", 55)

	svc := NewPerformanceService(repo, nil, discardLogger())
	perf, err := svc.GetStudentPerformance(ctx, 10, "student-1")
	if err != nil {
		t.Fatalf("GetStudentPerformance() error = %v", err)
	}

	if perf.PerformanceScore != 55 {
		t.Errorf("PerformanceScore = %v, want 55 (assignment side alone)", perf.PerformanceScore)
	}
	if perf.RiskStatus != RiskHigh {
		t.Errorf("RiskStatus = %s, want High", perf.RiskStatus)
	}
}

func TestStudentPerformanceNoData(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()

	svc := NewPerformanceService(repo, nil, discardLogger())
	perf, err := svc.GetStudentPerformance(ctx, 10, "student-1")
	if err != nil {
		t.Fatalf("GetStudentPerformance() error = %v", err)
	}

	if perf.PerformanceScore != 0 {
		t.Errorf("PerformanceScore = %v, want 0", perf.PerformanceScore)
	}
	if perf.RiskStatus != RiskHigh {
		t.Errorf("RiskStatus = %s, want High", perf.RiskStatus)
	}
}

func TestUngradedSubmissionsCountSubmittedNotAverage(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	a := addAssignment(repo, 1, 10, 100)
	addGradedSubmission(repo, a, "student-1", 90)
	repo.submissions = append(repo.submissions, &models.AssignmentSubmission{
		AssignmentID: 1,
		StudentID:    "student-1",
		Status:       models.SubmissionStatusSubmitted,
		Assignment:   a,
	})

	svc := NewPerformanceService(repo, nil, discardLogger())
	perf, err := svc.GetStudentPerformance(ctx, 10, "student-1")
	if err != nil {
		t.Fatalf("GetStudentPerformance() error = %v", err)
	}

	if perf.Assignments.Submitted != 2 {
		t.Errorf("Submitted = %d, want 2", perf.Assignments.Submitted)
	}
	if perf.Assignments.AverageScore != 90 {
		t.Errorf("average = %v, want 90 over graded work only", perf.Assignments.AverageScore)
	}
}

func TestRiskThresholdBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskStatus
	}{
		{0, RiskHigh},
		{59.99, RiskHigh},
		{60, RiskMedium},
		{74.99, RiskMedium},
		{75, RiskLow},
		{100, RiskLow},
	}
	for _, tt := range tests {
		if got := riskStatus(tt.score); got != tt.want {
			t.Errorf("riskStatus(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCourseRosterOrdersAtRiskFirst(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	addAttempt(repo, 1, 10, "student-a", 95)
	addAttempt(repo, 2, 10, "student-b", 40)
	addAttempt(repo, 3, 10, "student-c", 70)
	repo.users["student-a"] = &models.User{ID: "student-a", Name: "Ada", Role: models.RoleStudent}
	repo.users["student-b"] = &models.User{ID: "student-b", Name: "Ben", Role: models.RoleStudent}
	repo.users["student-c"] = &models.User{ID: "student-c", Name: "Cam", Role: models.RoleStudent}

	svc := NewPerformanceService(repo, nil, discardLogger())
	roster, err := svc.GetCourseRoster(ctx, 10)
	if err != nil {
		t.Fatalf("GetCourseRoster() error = %v", err)
	}

	if len(roster) != 3 {
		t.Fatalf("roster has %d rows, want 3", len(roster))
	}
	wantOrder := []string{"student-b", "student-c", "student-a"}
	for i, want := range wantOrder {
		if roster[i].StudentID != want {
			t.Errorf("roster[%d] = %s, want %s", i, roster[i].StudentID, want)
		}
	}
	if roster[0].StudentName != "Ben" {
		t.Errorf("roster[0] name = %q, want Ben", roster[0].StudentName)
	}
	if roster[0].RiskStatus != RiskHigh || roster[2].RiskStatus != RiskLow {
		t.Errorf("risk tiers = %s/%s, want High/Low at the ends", roster[0].RiskStatus, roster[2].RiskStatus)
	}
}
