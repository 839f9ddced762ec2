package packet

import (
	"github.com/google/uuid"

	"github.com/go-theft-craft/oreveins/pkg/text"
)

// LoginStart is sent by the client with their username (serverbound 0x00 in Login state).
type LoginStart struct {
	Name       string    `mc:"string"`
	PlayerUUID uuid.UUID `mc:"uuid"`
}

func (LoginStart) PacketID() int32 { return 0x00 }

// LoginDisconnect tells the client they are disconnected during login (clientbound 0x00).
type LoginDisconnect struct {
	Reason text.Component `mc:"json"`
}

func (LoginDisconnect) PacketID() int32 { return 0x00 }

// LoginSuccess is sent by the server after successful login (clientbound 0x02).
// The server never sends profile properties.
type LoginSuccess struct {
	UUID                uuid.UUID `mc:"uuid"`
	Username            string    `mc:"string"`
	PropertyCount       int32     `mc:"varint"`
	StrictErrorHandling bool      `mc:"bool"`
}

func (LoginSuccess) PacketID() int32 { return 0x02 }

// LoginAcknowledged moves the connection to the Configuration state (serverbound 0x03).
type LoginAcknowledged struct{}

func (LoginAcknowledged) PacketID() int32 { return 0x03 }

// FinishConfiguration ends the Configuration state (clientbound 0x03).
type FinishConfiguration struct{}

func (FinishConfiguration) PacketID() int32 { return 0x03 }

// AcknowledgeFinishConfiguration moves the connection to Play (serverbound 0x03).
type AcknowledgeFinishConfiguration struct{}

func (AcknowledgeFinishConfiguration) PacketID() int32 { return 0x03 }
