package domain

// MessagePage is one page of a conversation's message history, newest first.
type MessagePage struct {
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Data  []Message `json:"data"`
}

// ConversationPage is one page of a user's conversation list, most recently
// active first.
type ConversationPage struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Data  []Conversation `json:"data"`
}
