package chat

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prodiny/collegehub/internal/database"
	"github.com/prodiny/collegehub/internal/stats"
	"github.com/prodiny/collegehub/internal/types"
)

// ErrInvalidRequest marks send requests rejected before anything was
// persisted: empty content, unknown sender, unknown project.
var ErrInvalidRequest = errors.New("invalid request")

// Gateway accepts connections, dispatches inbound frames, and fans
// persisted messages out to project rooms. It owns the registry it is
// constructed with; nothing else mutates it.
type Gateway struct {
	log      *log.Logger
	db       database.CollegeHubRepository
	registry *Registry
	stats    stats.StatsProvider

	// sendMu serializes persist+dispatch so the broadcast order of messages
	// in one project always matches their persistence order.
	sendMu sync.Mutex
}

func NewGateway(logger *log.Logger, db database.CollegeHubRepository, registry *Registry, su stats.StatsProvider) (*Gateway, error) {
	if registry == nil {
		return nil, errors.New("nil registry")
	}

	for _, metric := range []string{
		stats.NumConnections,
		stats.NumRoomJoins,
		stats.MessagesSent,
		stats.MessagesDropped,
	} {
		su.RegisterMetric(metric)
	}

	return &Gateway{
		log:      logger,
		db:       db,
		registry: registry,
		stats:    su,
	}, nil
}

// Connect binds an upgraded websocket connection to user, registers the
// client, and starts its pumps. Any previous client for the same user is
// silently replaced in the registry.
func (g *Gateway) Connect(user types.User, conn *websocket.Conn) *Client {
	c := newClient(user, conn, g, g.log)
	g.registry.Register(user.Id, c)
	g.stats.Incr(stats.NumConnections)
	g.log.Printf("connected %q", user.EmailAddress)

	go c.WritePump()
	go c.ReadPump()

	return c
}

// Disconnect tears down c and removes its user-keyed registry entry. Room
// membership is left for broadcast pruning. Safe to call on every read-pump
// exit path; a client replaced by a newer connection does not evict it.
func (g *Gateway) Disconnect(c *Client) {
	c.close()
	if g.registry.unregisterClient(c.user.Id, c) {
		g.log.Printf("disconnected %q", c.user.EmailAddress)
	}
	g.stats.Decr(stats.NumConnections)
}

// JoinProject subscribes c to the project's room. Only project members may
// subscribe; anyone else would receive every message broadcast to the room.
func (g *Gateway) JoinProject(projectId int, c *Client) error {
	member, err := g.db.IsProjectMember(projectId, c.user.Id)
	if err != nil {
		return fmt.Errorf("check project membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: user %d is not a member of project %d", ErrInvalidRequest, c.user.Id, projectId)
	}

	g.registry.JoinRoom(projectId, c)
	g.stats.Incr(stats.NumRoomJoins)
	g.log.Printf("%q joined project %d room", c.user.EmailAddress, projectId)
	return nil
}

// SendProjectMessage validates, persists, then broadcasts one chat message.
// The persisted message is returned even when no room member could be
// reached; broadcasting never rolls back persistence.
func (g *Gateway) SendProjectMessage(senderId, projectId int, content string) (types.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return types.ChatMessage{}, fmt.Errorf("%w: empty message content", ErrInvalidRequest)
	}

	sender, err := g.db.GetUserById(senderId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ChatMessage{}, fmt.Errorf("%w: unknown sender %d", ErrInvalidRequest, senderId)
		}
		return types.ChatMessage{}, fmt.Errorf("lookup sender: %w", err)
	}

	if _, err := g.db.GetProjectById(projectId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ChatMessage{}, fmt.Errorf("%w: unknown project %d", ErrInvalidRequest, projectId)
		}
		return types.ChatMessage{}, fmt.Errorf("lookup project: %w", err)
	}

	g.sendMu.Lock()
	defer g.sendMu.Unlock()

	dbMsg, err := g.db.CreateProjectMessage(content, senderId, projectId)
	if err != nil {
		return types.ChatMessage{}, fmt.Errorf("persist message: %w", err)
	}

	msg := types.ChatMessage{
		Id:         dbMsg.Id,
		Content:    dbMsg.Content,
		SenderName: sender.Name,
		ProjectId:  projectId,
		CreatedAt:  dbMsg.CreatedAt,
	}

	payload, err := json.Marshal(newMessageFrame(msg))
	if err != nil {
		g.log.Printf("serialize broadcast frame: %v", err)
		return msg, nil
	}

	g.Broadcast(projectId, payload)

	return msg, nil
}

// Broadcast delivers payload to the current snapshot of the project's room.
// A member that fails delivery is pruned from the room set only; its
// user-keyed entry is removed on explicit disconnect. One dead member never
// blocks delivery to the rest.
func (g *Gateway) Broadcast(projectId int, payload []byte) {
	for _, member := range g.registry.RoomMembers(projectId) {
		if member.queueFrame(payload) == deliveryFailed {
			g.registry.RemoveFromRoom(projectId, member)
			g.stats.Incr(stats.MessagesDropped)
			g.log.Printf("pruned %q from project %d room after failed delivery", member.user.EmailAddress, projectId)
			continue
		}
		g.stats.Incr(stats.MessagesSent)
	}
}

// Shutdown stops every live client. Each read pump observes the closed
// connection and runs its usual cleanup path.
func (g *Gateway) Shutdown() {
	for _, c := range g.registry.clients() {
		c.close()
		if c.conn != nil {
			c.conn.Close()
		}
	}
}
