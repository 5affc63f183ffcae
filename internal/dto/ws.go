package dto

// WSEvent - envelope for websocket pushes to the dashboard
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSReviewCreated - payload for a freshly submitted review
type WSReviewCreated struct {
	Review             ReviewDTO `json:"review"`
	QuestionnaireTitle string    `json:"questionnaire_title"`
}
