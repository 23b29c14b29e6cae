package model

import "encoding/json"

// Comment is immutable once appended to a post.
type Comment struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// DecodeComment accepts any JSON object; fields with the wrong type read as "".
func DecodeComment(raw json.RawMessage) (Comment, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Comment{}, false
	}

	return Comment{
		ID:        stringField(fields["id"]),
		UserID:    stringField(fields["userId"]),
		Username:  stringField(fields["username"]),
		Text:      stringField(fields["text"]),
		Timestamp: stringField(fields["timestamp"]),
	}, true
}
