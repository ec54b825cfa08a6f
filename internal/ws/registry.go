package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type (
	ConnectionID string
	UserID       string
	RoomID       string
)

type ConnectionType string

const (
	ConnectionGeneral       ConnectionType = "general"
	ConnectionChat          ConnectionType = "chat"
	ConnectionNotifications ConnectionType = "notifications"
)

type ConnState int

const (
	StatePending ConnState = iota
	StateConnected
	StateDisconnected
)

func (s ConnState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Channel is one duplex message stream to a client.
type Channel interface {
	Accept(ctx context.Context) error
	SendText(ctx context.Context, msg []byte) error
	Close() error
}

type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Connection is a snapshot of a registered connection.
type Connection struct {
	ID           ConnectionID
	UserID       UserID
	Type         ConnectionType
	State        ConnState
	CreatedAt    time.Time
	LastActivity time.Time

	channel Channel
}

type Option func(*Registry)

func WithIDGenerator(g IDGenerator) Option {
	return func(r *Registry) {
		if g != nil {
			r.ids = g
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry tracks live connections per user and room membership. Channel
// I/O never happens while mu is held.
type Registry struct {
	mu          sync.Mutex
	connections map[UserID]map[ConnectionID]*Connection
	meta        map[ConnectionID]*Connection
	rooms       map[RoomID]map[UserID]struct{}

	ids    IDGenerator
	now    func() time.Time
	logger *log.Logger
}

func NewRegistry(logger *log.Logger, opts ...Option) *Registry {
	r := &Registry{
		connections: make(map[UserID]map[ConnectionID]*Connection),
		meta:        make(map[ConnectionID]*Connection),
		rooms:       make(map[RoomID]map[UserID]struct{}),
		ids:         UUIDGenerator{},
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// Connect accepts ch and registers it for userID. Only an accept failure is
// returned to the caller.
func (r *Registry) Connect(ctx context.Context, ch Channel, userID UserID, typ ConnectionType) (ConnectionID, error) {
	if ch == nil {
		return "", fmt.Errorf("nil channel")
	}
	if typ == "" {
		typ = ConnectionGeneral
	}

	now := r.now()
	conn := &Connection{
		ID:           ConnectionID(r.ids.NewID()),
		UserID:       userID,
		Type:         typ,
		State:        StatePending,
		CreatedAt:    now,
		LastActivity: now,
		channel:      ch,
	}

	if err := ch.Accept(ctx); err != nil {
		return "", fmt.Errorf("accept connection: %w", err)
	}

	r.mu.Lock()
	conns, ok := r.connections[userID]
	if !ok {
		conns = make(map[ConnectionID]*Connection)
		r.connections[userID] = conns
	}
	conn.State = StateConnected
	conns[conn.ID] = conn
	r.meta[conn.ID] = conn
	total := len(r.meta)
	r.mu.Unlock()

	r.logf("WS connected | user_id=%s conn_id=%s type=%s total_connections=%d", userID, conn.ID, typ, total)

	r.broadcastUserStatus(ctx, userID, StatusOnline)
	return conn.ID, nil
}

// Disconnect removes the connection. Unknown connections are ignored.
func (r *Registry) Disconnect(ctx context.Context, userID UserID, connID ConnectionID) {
	r.mu.Lock()
	conns, ok := r.connections[userID]
	if !ok {
		r.mu.Unlock()
		return
	}
	conn, ok := conns[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	conn.State = StateDisconnected
	delete(conns, connID)
	delete(r.meta, connID)
	lastGone := len(conns) == 0
	if lastGone {
		delete(r.connections, userID)
	}
	ch := conn.channel
	r.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
	}
	r.logf("WS disconnected | user_id=%s conn_id=%s", userID, connID)

	if lastGone {
		r.broadcastUserStatus(ctx, userID, StatusOffline)
	}
}

// SendPersonalMessage delivers msg to every live connection of userID. A
// connection whose send fails is disconnected on its own; the returned error
// only reports an unencodable message.
func (r *Registry) SendPersonalMessage(ctx context.Context, userID UserID, msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	r.sendRaw(ctx, userID, b)
	return nil
}

// SendToConnection delivers msg to one connection only.
func (r *Registry) SendToConnection(ctx context.Context, connID ConnectionID, msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	conn, ok := r.meta[connID]
	var target Connection
	if ok {
		target = *conn
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}

	r.deliver(ctx, target, b)
	return nil
}

func (r *Registry) sendRaw(ctx context.Context, userID UserID, b []byte) {
	for _, c := range r.snapshotUser(userID) {
		r.deliver(ctx, c, b)
	}
}

func (r *Registry) deliver(ctx context.Context, c Connection, b []byte) bool {
	if err := c.channel.SendText(ctx, b); err != nil {
		r.logf("WS send failed | user_id=%s conn_id=%s error=%v", c.UserID, c.ID, err)
		r.deliveryFailed(ctx, c)
		return false
	}
	r.touch(c.ID)
	return true
}

// deliveryFailed is the connected -> disconnected transition for a failed send.
func (r *Registry) deliveryFailed(ctx context.Context, c Connection) {
	r.Disconnect(ctx, c.UserID, c.ID)
}

func (r *Registry) touch(connID ConnectionID) {
	r.mu.Lock()
	if conn, ok := r.meta[connID]; ok {
		conn.LastActivity = r.now()
	}
	r.mu.Unlock()
}

// Touch records client activity, e.g. a pong.
func (r *Registry) Touch(connID ConnectionID) {
	r.touch(connID)
}

func (r *Registry) snapshotUser(userID UserID) []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.connections[userID]
	out := make([]Connection, 0, len(conns))
	for _, c := range conns {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) JoinRoom(userID UserID, roomID RoomID) {
	r.mu.Lock()
	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[UserID]struct{})
		r.rooms[roomID] = members
	}
	members[userID] = struct{}{}
	r.mu.Unlock()

	r.logf("WS room joined | user_id=%s room_id=%s", userID, roomID)
}

func (r *Registry) LeaveRoom(userID UserID, roomID RoomID) {
	r.mu.Lock()
	if members, ok := r.rooms[roomID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
	r.mu.Unlock()

	r.logf("WS room left | user_id=%s room_id=%s", userID, roomID)
}

// BroadcastToRoom sends msg to every member of roomID except excludeUser,
// one member at a time.
func (r *Registry) BroadcastToRoom(ctx context.Context, roomID RoomID, msg any, excludeUser UserID) error {
	members := r.RoomMembers(roomID)
	if len(members) == 0 {
		return nil
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	for _, uid := range members {
		if excludeUser != "" && uid == excludeUser {
			continue
		}
		r.sendRaw(ctx, uid, b)
	}
	return nil
}

// BroadcastAll sends msg to every online user.
func (r *Registry) BroadcastAll(ctx context.Context, msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	for _, uid := range r.OnlineUsers() {
		r.sendRaw(ctx, uid, b)
	}
	return nil
}

func (r *Registry) broadcastUserStatus(ctx context.Context, userID UserID, status string) {
	evt := UserStatusEvent{
		Type:      EventUserStatus,
		UserID:    userID,
		Status:    status,
		Timestamp: formatTimestamp(r.now()),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, uid := range r.OnlineUsers() {
		if uid == userID {
			continue
		}
		r.sendRaw(ctx, uid, b)
	}
}

// PingAllConnections sends a ping to every connection and disconnects the
// ones that failed once the sweep is over. It returns the number of dead
// connections.
func (r *Registry) PingAllConnections(ctx context.Context) int {
	b, err := json.Marshal(PingEvent{Type: EventPing, Timestamp: formatTimestamp(r.now())})
	if err != nil {
		return 0
	}

	r.mu.Lock()
	all := make([]Connection, 0, len(r.meta))
	for _, c := range r.meta {
		all = append(all, *c)
	}
	r.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	dead := make([]Connection, 0)
	for _, c := range all {
		if err := c.channel.SendText(ctx, b); err != nil {
			dead = append(dead, c)
		}
	}

	for _, c := range dead {
		r.deliveryFailed(ctx, c)
	}
	if len(dead) > 0 {
		r.logf("WS ping sweep | checked=%d dead=%d", len(all), len(dead))
	}
	return len(dead)
}

func (r *Registry) OnlineUsers() []UserID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]UserID, 0, len(r.connections))
	for uid := range r.connections {
		out = append(out, uid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) ConnectionCount(userID UserID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections[userID])
}

func (r *Registry) TotalConnections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.meta)
}

func (r *Registry) RoomMembers(roomID RoomID) []UserID {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[roomID]
	out := make([]UserID, 0, len(members))
	for uid := range members {
		out = append(out, uid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) HasRoom(roomID RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID]
	return ok
}

func (r *Registry) Connection(connID ConnectionID) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.meta[connID]
	if !ok {
		return Connection{}, false
	}
	return *c, true
}
