package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"uphera/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

var errChannelNotAccepted = errors.New("channel not accepted")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// gorillaChannel defers the HTTP upgrade to Accept so that a failed upgrade
// surfaces as a Connect error.
type gorillaChannel struct {
	w http.ResponseWriter
	r *http.Request

	mu   sync.Mutex
	conn *websocket.Conn
}

func (g *gorillaChannel) Accept(_ context.Context) error {
	conn, err := upgrader.Upgrade(g.w, g.r, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(maxMessageSize)
	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()
	return nil
}

func (g *gorillaChannel) SendText(ctx context.Context, msg []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn == nil {
		return errChannelNotAccepted
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := g.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return g.conn.WriteMessage(websocket.TextMessage, msg)
}

func (g *gorillaChannel) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn == nil {
		return nil
	}
	return g.conn.Close()
}

func (g *gorillaChannel) read() ([]byte, error) {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return nil, errChannelNotAccepted
	}
	for {
		typ, b, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if typ == websocket.TextMessage {
			return b, nil
		}
	}
}

type Handler struct {
	svc          *Service
	jwt          jwt.Service
	requireToken bool
	logger       *log.Logger
}

// NewHandler wires the websocket routes. A ?token= access token, when given,
// must belong to the path user; requireToken rejects connections without one.
func NewHandler(svc *Service, jwtSvc jwt.Service, requireToken bool, logger *log.Logger) *Handler {
	return &Handler{svc: svc, jwt: jwtSvc, requireToken: requireToken, logger: logger}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/ws")
	grp.Get("/general/:user_id", h.HandleGeneral)
	grp.Get("/chat/:user_id", h.HandleChat)
	grp.Get("/notifications/:user_id", h.HandleNotifications)
}

func (h *Handler) HandleGeneral(c fiber.Ctx) error {
	return h.serve(c, ConnectionGeneral, nil, nil)
}

func (h *Handler) HandleChat(c fiber.Ctx) error {
	reg := h.registry()
	onOpen := func(_ context.Context, userID UserID, _ ConnectionID) {
		reg.JoinRoom(userID, GeneralChatRoom)
	}
	onClose := func(userID UserID) {
		reg.LeaveRoom(userID, GeneralChatRoom)
	}
	return h.serve(c, ConnectionChat, onOpen, onClose)
}

func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	onOpen := func(ctx context.Context, _ UserID, connID ConnectionID) {
		h.svc.SendWelcome(ctx, connID)
	}
	return h.serve(c, ConnectionNotifications, onOpen, nil)
}

func (h *Handler) registry() *Registry {
	if h == nil || h.svc == nil {
		return nil
	}
	return h.svc.Registry()
}

func (h *Handler) serve(
	c fiber.Ctx,
	typ ConnectionType,
	onOpen func(ctx context.Context, userID UserID, connID ConnectionID),
	onClose func(userID UserID),
) error {
	reg := h.registry()
	if reg == nil {
		return fiber.ErrServiceUnavailable
	}

	userID := UserID(strings.TrimSpace(c.Params("user_id")))
	if userID == "" {
		return fiber.ErrBadRequest
	}
	if err := h.authorize(c.Query("token"), userID); err != nil {
		return fiber.ErrUnauthorized
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()
		ch := &gorillaChannel{w: w, r: r}

		connID, err := reg.Connect(ctx, ch, userID, typ)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | user_id=%s error=%v", userID, err)
			}
			return
		}
		defer func() {
			if onClose != nil {
				onClose(userID)
			}
			reg.Disconnect(ctx, userID, connID)
		}()

		if onOpen != nil {
			onOpen(ctx, userID, connID)
		}

		for {
			b, err := ch.read()
			if err != nil {
				if h.logger != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Printf("WS read error | user_id=%s conn_id=%s error=%v", userID, connID, err)
				}
				return
			}
			h.svc.HandleMessage(ctx, connID, userID, b)
		}
	})

	return fiberHandler(c)
}

func (h *Handler) authorize(token string, userID UserID) error {
	token = strings.TrimSpace(token)
	if token == "" {
		if h.requireToken {
			return jwt.ErrTokenInvalid
		}
		return nil
	}
	if h.jwt == nil {
		return jwt.ErrTokenInvalid
	}
	claims, err := h.jwt.ValidateAccessToken(token)
	if err != nil {
		return err
	}
	if claims.UserID.String() != string(userID) {
		return jwt.ErrTokenInvalid
	}
	return nil
}
