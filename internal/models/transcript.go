package models

// Fragment is one unit of speech-recognition output pushed by the capture
// source. Interim fragments are provisional display text superseded by later
// fragments; final fragments are immutable and make up the persisted answer.
type Fragment struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}
