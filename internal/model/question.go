package model

// Question pairs a true/false statement with its ground truth. The truth
// value stays server-side until the round ends.
type Question struct {
	Text   string `json:"q" bson:"q"`
	Answer bool   `json:"a" bson:"a"`
}
