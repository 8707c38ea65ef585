package domain

import "time"

// TimestampLayout is the ISO-8601 layout used for stored comment timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DefaultCommentName is used when a comment is submitted without a name.
const DefaultCommentName = "Anonymous"

// Comment is a single entry on the comment board.
type Comment struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewComment builds a comment stamped with the given time in UTC.
func NewComment(name, message string, at time.Time) Comment {
	if name == "" {
		name = DefaultCommentName
	}
	return Comment{
		Name:      name,
		Message:   message,
		Timestamp: at.UTC().Format(TimestampLayout),
	}
}

// Time parses the comment timestamp. It returns the zero time if the
// stored value is not a valid timestamp.
func (c Comment) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, c.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
