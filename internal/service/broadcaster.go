package service

// Broadcaster interface for WebSocket delivery (avoids import cycle with the
// transport layer). The core never touches a socket directly.
type Broadcaster interface {
	ToMember(token int64, msgType string, payload interface{})
	ToMembers(tokens []int64, msgType string, payload interface{})
}
