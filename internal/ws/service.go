package ws

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"
)

const (
	DefaultChatRoom RoomID = "general"
	GeneralChatRoom RoomID = "general_chat"
)

// ChatStore persists chat messages. Failures are logged, never returned to
// the sender.
type ChatStore interface {
	SaveChatMessage(ctx context.Context, msg ChatMessageEvent) error
}

type Service struct {
	registry *Registry
	chats    ChatStore
	ids      IDGenerator
	now      func() time.Time
	logger   *log.Logger
}

func NewService(registry *Registry, chats ChatStore, logger *log.Logger) *Service {
	return &Service{
		registry: registry,
		chats:    chats,
		ids:      UUIDGenerator{},
		now:      time.Now,
		logger:   logger,
	}
}

func (s *Service) Registry() *Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// HandleMessage dispatches one inbound frame from connID.
func (s *Service) HandleMessage(ctx context.Context, connID ConnectionID, userID UserID, raw []byte) {
	if s == nil || s.registry == nil {
		return
	}

	var in inboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		s.reply(ctx, connID, ErrorEvent{Type: EventError, Message: "Invalid message format"})
		return
	}

	switch in.Type {
	case EventChatMessage:
		s.handleChatMessage(ctx, userID, in)

	case EventJoinRoom:
		if in.RoomID == "" {
			return
		}
		s.registry.JoinRoom(userID, in.RoomID)
		s.reply(ctx, connID, RoomJoinedEvent{
			Type:      EventRoomJoined,
			RoomID:    in.RoomID,
			Timestamp: formatTimestamp(s.now()),
		})

	case EventLeaveRoom:
		if in.RoomID == "" {
			return
		}
		s.registry.LeaveRoom(userID, in.RoomID)

	case EventGetOnline:
		s.reply(ctx, connID, OnlineUsersEvent{Type: EventOnlineUsers, Users: s.registry.OnlineUsers()})

	case EventPong:
		s.registry.Touch(connID)

	default:
		s.reply(ctx, connID, ErrorEvent{Type: EventError, Message: "Unknown message type: " + in.Type})
	}
}

func (s *Service) handleChatMessage(ctx context.Context, userID UserID, in inboundMessage) {
	if strings.TrimSpace(in.Content) == "" {
		return
	}
	room := in.RoomID
	if room == "" {
		room = DefaultChatRoom
	}

	msg := ChatMessageEvent{
		Type:      EventChatMessage,
		UserID:    userID,
		Content:   in.Content,
		RoomID:    room,
		Timestamp: formatTimestamp(s.now()),
		MessageID: s.ids.NewID(),
	}

	if err := s.registry.BroadcastToRoom(ctx, room, msg, ""); err != nil {
		s.logf("WS chat broadcast error | room_id=%s error=%v", room, err)
	}

	if s.chats != nil {
		if err := s.chats.SaveChatMessage(ctx, msg); err != nil {
			s.logf("WS chat persist error | message_id=%s error=%v", msg.MessageID, err)
		}
	}
	s.logf("WS chat message | user_id=%s room_id=%s", userID, room)
}

func (s *Service) reply(ctx context.Context, connID ConnectionID, msg any) {
	if err := s.registry.SendToConnection(ctx, connID, msg); err != nil {
		s.logf("WS reply error | conn_id=%s error=%v", connID, err)
	}
}

// SendWelcome greets a freshly opened notifications connection.
func (s *Service) SendWelcome(ctx context.Context, connID ConnectionID) {
	s.reply(ctx, connID, WelcomeEvent{
		Type:      EventWelcome,
		Message:   "Connected for notifications",
		Timestamp: formatTimestamp(s.now()),
	})
}

func (s *Service) SendNotification(ctx context.Context, userID UserID, notification any) error {
	if s == nil || s.registry == nil {
		return nil
	}
	return s.registry.SendPersonalMessage(ctx, userID, NotificationEvent{
		Type:         EventNotification,
		Notification: notification,
		Timestamp:    formatTimestamp(s.now()),
	})
}

// SendJobUpdate pushes a job to every online user.
func (s *Service) SendJobUpdate(ctx context.Context, job any) error {
	if s == nil || s.registry == nil {
		return nil
	}
	return s.registry.BroadcastAll(ctx, JobUpdateEvent{
		Type:      EventJobUpdate,
		Job:       job,
		Timestamp: formatTimestamp(s.now()),
	})
}
