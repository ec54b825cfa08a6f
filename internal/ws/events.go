package ws

import (
	"time"
)

const (
	EventUserStatus   = "user_status"
	EventNotification = "notification"
	EventChatMessage  = "chat_message"
	EventJobUpdate    = "job_update"
	EventPing         = "ping"
	EventPong         = "pong"
	EventRoomJoined   = "room_joined"
	EventJoinRoom     = "join_room"
	EventLeaveRoom    = "leave_room"
	EventGetOnline    = "get_online_users"
	EventOnlineUsers  = "online_users"
	EventWelcome      = "welcome"
	EventError        = "error"

	StatusOnline  = "online"
	StatusOffline = "offline"
)

type UserStatusEvent struct {
	Type      string `json:"type"`
	UserID    UserID `json:"user_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type NotificationEvent struct {
	Type         string `json:"type"`
	Notification any    `json:"notification"`
	Timestamp    string `json:"timestamp"`
}

type ChatMessageEvent struct {
	Type      string `json:"type"`
	UserID    UserID `json:"user_id"`
	Content   string `json:"content"`
	RoomID    RoomID `json:"room_id"`
	Timestamp string `json:"timestamp"`
	MessageID string `json:"message_id"`
}

type JobUpdateEvent struct {
	Type      string `json:"type"`
	Job       any    `json:"job"`
	Timestamp string `json:"timestamp"`
}

type PingEvent struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

type RoomJoinedEvent struct {
	Type      string `json:"type"`
	RoomID    RoomID `json:"room_id"`
	Timestamp string `json:"timestamp"`
}

type OnlineUsersEvent struct {
	Type  string   `json:"type"`
	Users []UserID `json:"users"`
}

type WelcomeEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// inboundMessage is the envelope clients send.
type inboundMessage struct {
	Type    string `json:"type"`
	RoomID  RoomID `json:"room_id"`
	Content string `json:"content"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
