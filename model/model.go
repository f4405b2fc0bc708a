package model

// Notification is a single push sent to an ntfy topic.
type Notification struct {
	Topic    string
	Title    string
	Tags     []string
	Message  string
	Priority int
}
