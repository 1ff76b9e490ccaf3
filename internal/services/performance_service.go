package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/repositories"
)

// Risk tier thresholds. Fixed for every course; per-course configuration is
// a possible followup once the advising workflow needs it.
const (
	riskHighBelow   = 60.0
	riskMediumBelow = 75.0
)

// performanceService recomputes rollups on demand from the ledger and the
// assignment store. It never writes either.
type performanceService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewPerformanceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) PerformanceService {
	return &performanceService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *performanceService) GetStudentPerformance(ctx context.Context, courseID uint, studentID string) (*StudentPerformance, error) {
	assignments, err := s.repo.Assignment().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	submissions, err := s.repo.Assignment().ListSubmissionsByStudentAndCourse(ctx, nil, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	attempts, err := s.repo.Attempt().ListByStudentAndCourse(ctx, nil, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	perf := &StudentPerformance{
		StudentID: studentID,
		CourseID:  courseID,
		Assignments: AssignmentPerformance{
			Submitted: len(submissions),
			Total:     len(assignments),
		},
	}

	// Assignment average: graded scores normalized to percent of the
	// assignment's total marks.
	gradedSum := 0.0
	gradedCount := 0
	for _, sub := range submissions {
		if sub.Score == nil || sub.Assignment == nil || sub.Assignment.TotalMarks <= 0 {
			continue
		}
		gradedSum += float64(*sub.Score) / float64(sub.Assignment.TotalMarks) * 100
		gradedCount++
	}
	if gradedCount > 0 {
		perf.Assignments.AverageScore = roundFloat(gradedSum/float64(gradedCount), 2)
	}

	quizSum := 0.0
	for _, attempt := range attempts {
		quizSum += float64(attempt.Score)
	}
	perf.Quizzes.Attempted = len(attempts)
	if len(attempts) > 0 {
		perf.Quizzes.AverageScore = roundFloat(quizSum/float64(len(attempts)), 2)
	}

	perf.PerformanceScore = blendScore(gradedCount > 0, perf.Assignments.AverageScore, len(attempts) > 0, perf.Quizzes.AverageScore)
	perf.RiskStatus = riskStatus(perf.PerformanceScore)
	return perf, nil
}

// GetCourseRoster rolls up every student with a recorded attempt in the
// course, at-risk students first.
func (s *performanceService) GetCourseRoster(ctx context.Context, courseID uint) ([]*StudentPerformance, error) {
	studentIDs, err := s.repo.Attempt().GetCourseStudentIDs(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course students: %w", err)
	}

	users, err := s.repo.User().GetByIDs(ctx, nil, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load student names: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	roster := make([]*StudentPerformance, 0, len(studentIDs))
	for _, id := range studentIDs {
		perf, err := s.GetStudentPerformance(ctx, courseID, id)
		if err != nil {
			s.logger.ErrorContext(ctx, "Skipping student in roster rollup",
				"error", err,
				"student_id", id,
				"course_id", courseID)
			continue
		}
		perf.StudentName = names[id]
		roster = append(roster, perf)
	}

	sort.Slice(roster, func(i, j int) bool {
		if roster[i].PerformanceScore != roster[j].PerformanceScore {
			return roster[i].PerformanceScore < roster[j].PerformanceScore
		}
		return roster[i].StudentID < roster[j].StudentID
	})
	return roster, nil
}

// blendScore is the equal-weighted mean of the two averages when both exist,
// the existing one alone otherwise, and zero when neither does.
func blendScore(hasAssignments bool, assignmentAvg float64, hasQuizzes bool, quizAvg float64) float64 {
	switch {
	case hasAssignments && hasQuizzes:
		return roundFloat((assignmentAvg+quizAvg)/2, 2)
	case hasAssignments:
		return assignmentAvg
	case hasQuizzes:
		return quizAvg
	default:
		return 0
	}
}

func riskStatus(score float64) RiskStatus {
	switch {
	case score < riskHighBelow:
		return RiskHigh
	case score < riskMediumBelow:
		return RiskMedium
	default:
		return RiskLow
	}
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
