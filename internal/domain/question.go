package domain

// QuestionType mirrors the category of a question. The bank is data so free
// categories are allowed; these are the ones the seed deck ships with.
type QuestionType string

const (
	QuestionMatching    QuestionType = "matching"
	QuestionMeasuring   QuestionType = "measuring"
	QuestionRadar       QuestionType = "radar"
	QuestionThermometer QuestionType = "thermometer"
	QuestionPhoto       QuestionType = "photo"
	QuestionTentacle    QuestionType = "tentacle"
)

// Question - статический контент банка вопросов
type Question struct {
	ID       string       `json:"id"`
	Category string       `json:"category"`
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Type     QuestionType `json:"type"`

	// Card economy and countdown hints, enforced by the UI only.
	DrawCards int `json:"drawCards,omitempty"`
	KeepCards int `json:"keepCards,omitempty"`
	TimeLimit int `json:"timeLimit,omitempty"` // seconds
}
