package videoquiz

// Question represents a single multiple choice question as produced by the
// generative-text service. Answer is expected to equal one of Options but
// nothing upstream guarantees it.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz is an ordered list of questions. The index of a question is the key
// that correlates it with a submitted answer.
type Quiz []Question

// Mode selects where the generation context comes from
type Mode string

const (
	ModeVideo Mode = "video"
	ModeTopic Mode = "topic"
)

// GenerationRequest represents a request to generate questions
type GenerationRequest struct {
	Mode           Mode   `json:"mode"`
	Topic          string `json:"topic,omitempty"`
	SourceMaterial string `json:"source_material,omitempty"`
	NumQuestions   int    `json:"num_questions"`
}

// Source is the text a quiz is generated from, plus the video it came from
// when the quiz is video based.
type Source struct {
	Mode    Mode
	Text    string
	VideoID string
}

// Resource is a named URL saved by an account on its dashboard
type Resource struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
}
