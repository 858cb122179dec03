package models

// ConversationTurn holds the state of a single question/answer exchange.
// A turn is created when a query arrives, fully populated by the end of the
// pipeline run, and discarded once the result is returned. There is no
// server-side session memory across turns.
type ConversationTurn struct {
	Question  string
	Context   string
	Citations []Citation
	Answer    string
}
