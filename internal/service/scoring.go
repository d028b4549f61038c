package service

import "github.com/stemsi/exam-portal/internal/model"

// Score grades answers against the questions of one exam.
// Each question whose chosen slot equals the correct slot earns one point;
// answers for unknown question IDs are ignored. The percentage is 0 when
// there are no questions.
func Score(questions []model.Question, answers map[int64]string) (matched, total int, score float64) {
	total = len(questions)
	for i := range questions {
		chosen, ok := answers[questions[i].ID]
		if ok && chosen == string(questions[i].CorrectOption) {
			matched++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	return matched, total, float64(matched) / float64(total) * 100
}
