package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// TimestampLayout is the layout new timestamps are written with (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"imageUrl"`
	Timestamp string    `json:"timestamp"`
	Likes     int64     `json:"likes"`
	LikedBy   []string  `json:"likedBy"`
	Comments  []Comment `json:"comments"`

	// Extra holds top-level fields this service does not know about so they survive a save.
	Extra map[string]json.RawMessage `json:"-"`
}

func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// ParseTimestamp reports ok=false for anything that is not a recognizable ISO-8601 date.
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (p *Post) IsLikedBy(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

func (p Post) MarshalJSON() ([]byte, error) {
	type plain Post
	base, err := json.Marshal(plain(p))
	if err != nil || len(p.Extra) == 0 {
		return base, err
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if _, known := postFields[k]; known {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(p.Extra[k])
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

var postFields = map[string]struct{}{
	"id": {}, "userId": {}, "username": {}, "text": {}, "imageUrl": {},
	"timestamp": {}, "likes": {}, "likedBy": {}, "comments": {},
}

// DecodePost turns one stored element into a normalized Post.
// ok is false when the element is not an object or lacks id, timestamp, userId or username.
func DecodePost(raw json.RawMessage) (Post, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Post{}, false
	}

	post := Post{
		ID:        stringField(fields["id"]),
		UserID:    stringField(fields["userId"]),
		Username:  stringField(fields["username"]),
		Timestamp: stringField(fields["timestamp"]),
	}
	if post.ID == "" || post.UserID == "" || post.Username == "" || post.Timestamp == "" {
		return Post{}, false
	}

	post.Text = stringField(fields["text"])
	post.ImageURL = stringField(fields["imageUrl"])
	post.Likes = numberField(fields["likes"])
	post.LikedBy = stringsField(fields["likedBy"])
	post.Comments = commentsField(fields["comments"])

	for k, v := range fields {
		if _, known := postFields[k]; known {
			continue
		}
		if post.Extra == nil {
			post.Extra = make(map[string]json.RawMessage)
		}
		post.Extra[k] = v
	}

	return post, true
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func numberField(raw json.RawMessage) int64 {
	var n json.Number
	if len(raw) == 0 || raw[0] == '"' || json.Unmarshal(raw, &n) != nil {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return int64(f)
}

func stringsField(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s *string
		if json.Unmarshal(item, &s) == nil && s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func commentsField(raw json.RawMessage) []Comment {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return []Comment{}
	}

	out := make([]Comment, 0, len(items))
	for _, item := range items {
		if c, ok := DecodeComment(item); ok {
			out = append(out, c)
		}
	}
	return out
}
