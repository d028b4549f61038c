package model

import "time"

// OptionSlot identifies one of the four option positions of a question.
// It is compared opaquely when scoring.
type OptionSlot string

const (
	Option1 OptionSlot = "option1"
	Option2 OptionSlot = "option2"
	Option3 OptionSlot = "option3"
	Option4 OptionSlot = "option4"
)

// Question is a multiple-choice question. Slots 3 and 4 are optional.
type Question struct {
	ID            int64      `json:"id"`
	ExamID        int64      `json:"exam_id"`
	QuestionText  string     `json:"question_text"`
	Option1       string     `json:"option1"`
	Option2       string     `json:"option2"`
	Option3       *string    `json:"option3,omitempty"`
	Option4       *string    `json:"option4,omitempty"`
	CorrectOption OptionSlot `json:"correct_option"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Option is one answer choice as shown to a student.
type Option struct {
	Slot OptionSlot `json:"slot"`
	Text string     `json:"text"`
}

// Options returns the populated option slots in slot order.
func (q *Question) Options() []Option {
	opts := []Option{
		{Slot: Option1, Text: q.Option1},
		{Slot: Option2, Text: q.Option2},
	}
	if q.Option3 != nil && *q.Option3 != "" {
		opts = append(opts, Option{Slot: Option3, Text: *q.Option3})
	}
	if q.Option4 != nil && *q.Option4 != "" {
		opts = append(opts, Option{Slot: Option4, Text: *q.Option4})
	}
	return opts
}

// HasOption reports whether slot refers to a populated option.
func (q *Question) HasOption(slot OptionSlot) bool {
	for _, o := range q.Options() {
		if o.Slot == slot && o.Text != "" {
			return true
		}
	}
	return false
}

// ForStudent strips the correct-option marker.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Options:      q.Options(),
	}
}

// QuestionForStudent is a question without the correct answer, sent to students.
type QuestionForStudent struct {
	ID           int64    `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []Option `json:"options"`
}

// AddQuestionRequest is the payload for adding a question to an exam.
type AddQuestionRequest struct {
	QuestionText  string `json:"question_text" form:"question_text" binding:"required,notblank,max=2000"`
	Option1       string `json:"option1" form:"option1" binding:"required,notblank,max=200"`
	Option2       string `json:"option2" form:"option2" binding:"required,notblank,max=200"`
	Option3       string `json:"option3" form:"option3" binding:"omitempty,max=200"`
	Option4       string `json:"option4" form:"option4" binding:"omitempty,max=200"`
	CorrectOption string `json:"correct_option" form:"correct_option" binding:"required,oneof=option1 option2 option3 option4"`
}
