package entity

// AnswerKind tells the renderer (and a future validating build) how an
// answer should be interpreted. Answers are currently accepted verbatim for
// every kind, including choice questions.
type AnswerKind string

const (
	AnswerKindText   AnswerKind = "text"
	AnswerKindChoice AnswerKind = "choice"
	AnswerKindDate   AnswerKind = "date"
	AnswerKindNumber AnswerKind = "number"
)

type Question struct {
	Id      string
	Section string
	Text    string
	Kind    AnswerKind
	Options []string // non-empty only for AnswerKindChoice
}
