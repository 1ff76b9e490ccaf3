package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests. The attempt
// store enforces the same (student, quiz) uniqueness the real index does.
type mockRepository struct {
	quizzes     map[uint]*models.Quiz
	attempts    map[string]*models.QuizAttempt
	assignments []*models.Assignment
	submissions []*models.AssignmentSubmission
	users       map[string]*models.User

	nextAttemptID uint

	// raceWinner, when set, is inserted into the ledger just before the
	// next Create call, simulating a concurrent submission winning the race.
	raceWinner *models.QuizAttempt
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quizzes:       make(map[uint]*models.Quiz),
		attempts:      make(map[string]*models.QuizAttempt),
		users:         make(map[string]*models.User),
		nextAttemptID: 1,
	}
}

func attemptKey(studentID string, quizID uint) string {
	return fmt.Sprintf("%s|%d", studentID, quizID)
}

func (m *mockRepository) Quiz() repositories.QuizRepository             { return &mockQuizRepo{m} }
func (m *mockRepository) Attempt() repositories.AttemptRepository       { return &mockAttemptRepo{m} }
func (m *mockRepository) Assignment() repositories.AssignmentRepository { return &mockAssignmentRepo{m} }
func (m *mockRepository) User() repositories.UserRepository             { return &mockUserRepo{m} }

func (m *mockRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(context.Context) error { return nil }
func (m *mockRepository) Close() error               { return nil }

type mockQuizRepo struct{ m *mockRepository }

func (r *mockQuizRepo) Create(_ context.Context, _ *gorm.DB, quiz *models.Quiz) error {
	if quiz.ID == 0 {
		quiz.ID = uint(len(r.m.quizzes) + 1)
	}
	quiz.QuestionCount = len(quiz.Questions)
	r.m.quizzes[quiz.ID] = quiz
	return nil
}

func (r *mockQuizRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.Quiz, error) {
	quiz, ok := r.m.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (r *mockQuizRepo) GetByCourse(_ context.Context, _ *gorm.DB, courseID uint, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	var out []*models.Quiz
	for _, quiz := range r.m.quizzes {
		if quiz.CourseID != courseID {
			continue
		}
		if filters.IsActive != nil && quiz.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, quiz)
	}
	return out, nil
}

func (r *mockQuizRepo) Update(_ context.Context, _ *gorm.DB, quiz *models.Quiz) error {
	if _, ok := r.m.quizzes[quiz.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.quizzes[quiz.ID] = quiz
	return nil
}

func (r *mockQuizRepo) Delete(_ context.Context, _ *gorm.DB, id uint) error {
	delete(r.m.quizzes, id)
	return nil
}

type mockAttemptRepo struct{ m *mockRepository }

func (r *mockAttemptRepo) Create(_ context.Context, _ *gorm.DB, attempt *models.QuizAttempt) error {
	if r.m.raceWinner != nil {
		winner := r.m.raceWinner
		r.m.raceWinner = nil
		r.m.attempts[attemptKey(winner.StudentID, winner.QuizID)] = winner
	}
	key := attemptKey(attempt.StudentID, attempt.QuizID)
	if _, exists := r.m.attempts[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	attempt.ID = r.m.nextAttemptID
	r.m.nextAttemptID++
	r.m.attempts[key] = attempt
	return nil
}

func (r *mockAttemptRepo) GetByStudentAndQuiz(_ context.Context, _ *gorm.DB, studentID string, quizID uint) (*models.QuizAttempt, error) {
	attempt, ok := r.m.attempts[attemptKey(studentID, quizID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return attempt, nil
}

func (r *mockAttemptRepo) ListByQuiz(_ context.Context, _ *gorm.DB, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	var out []*models.QuizAttempt
	for _, attempt := range r.m.attempts {
		if attempt.QuizID != quizID {
			continue
		}
		if filters.StudentID != nil && attempt.StudentID != *filters.StudentID {
			continue
		}
		out = append(out, attempt)
	}
	return out, nil
}

func (r *mockAttemptRepo) ListByStudentAndCourse(_ context.Context, _ *gorm.DB, studentID string, courseID uint) ([]*models.QuizAttempt, error) {
	var out []*models.QuizAttempt
	for _, attempt := range r.m.attempts {
		if attempt.StudentID == studentID && attempt.CourseID == courseID {
			out = append(out, attempt)
		}
	}
	return out, nil
}

func (r *mockAttemptRepo) CountByQuiz(_ context.Context, _ *gorm.DB, quizID uint) (int64, error) {
	var count int64
	for _, attempt := range r.m.attempts {
		if attempt.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (r *mockAttemptRepo) GetCourseStudentIDs(_ context.Context, _ *gorm.DB, courseID uint) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, attempt := range r.m.attempts {
		if attempt.CourseID == courseID && !seen[attempt.StudentID] {
			seen[attempt.StudentID] = true
			ids = append(ids, attempt.StudentID)
		}
	}
	return ids, nil
}

type mockAssignmentRepo struct{ m *mockRepository }

func (r *mockAssignmentRepo) ListByCourse(_ context.Context, _ *gorm.DB, courseID uint) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range r.m.assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockAssignmentRepo) ListSubmissionsByStudentAndCourse(_ context.Context, _ *gorm.DB, studentID string, courseID uint) ([]*models.AssignmentSubmission, error) {
	var out []*models.AssignmentSubmission
	for _, sub := range r.m.submissions {
		if sub.StudentID != studentID || sub.Assignment == nil || sub.Assignment.CourseID != courseID {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) GetByID(_ context.Context, _ *gorm.DB, id string) (*models.User, error) {
	user, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *mockUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if user, ok := r.m.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}
