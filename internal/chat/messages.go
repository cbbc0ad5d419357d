package chat

import (
	"github.com/prodiny/collegehub/internal/types"
)

// Inbound frame types acted on by the gateway. Anything else is dropped,
// which keeps the protocol tolerant of frames from newer clients.
const (
	frameTypeProjectMessage = "project_message"
	frameTypeJoinProject    = "join_project"
)

const frameTypeNewMessage = "new_message"

// ClientFrame is the envelope for every frame received from a client. Type
// is the discriminator; the remaining fields are meaningful only for the
// frame types that require them.
type ClientFrame struct {
	Type      string `json:"type"`
	ProjectId int    `json:"project_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// ServerFrame is the envelope for frames pushed to clients.
type ServerFrame struct {
	Type    string             `json:"type"`
	Message *types.ChatMessage `json:"message,omitempty"`
}

func newMessageFrame(msg types.ChatMessage) *ServerFrame {
	return &ServerFrame{
		Type:    frameTypeNewMessage,
		Message: &msg,
	}
}
