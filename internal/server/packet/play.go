package packet

import (
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// PlayDisconnect kicks the client during play (clientbound 0x1D).
type PlayDisconnect struct {
	Reason text.Component `mc:"nbt"`
}

func (PlayDisconnect) PacketID() int32 { return 0x1D }

// KeepAliveClientbound must be echoed by the client (clientbound 0x26).
type KeepAliveClientbound struct {
	KeepAliveID int64 `mc:"i64"`
}

func (KeepAliveClientbound) PacketID() int32 { return 0x26 }

// SystemChat shows a server message in chat, or above the hotbar when
// Overlay is set (clientbound 0x6C).
type SystemChat struct {
	Content text.Component `mc:"nbt"`
	Overlay bool           `mc:"bool"`
}

func (SystemChat) PacketID() int32 { return 0x6C }

// Transfer tells the client to reconnect to another server (clientbound 0x73).
type Transfer struct {
	Host string `mc:"string"`
	Port int32  `mc:"varint"`
}

func (Transfer) PacketID() int32 { return 0x73 }

// AcknowledgeBlockChange confirms the client's predicted block changes up to
// Sequence (clientbound 0x05).
type AcknowledgeBlockChange struct {
	Sequence int32 `mc:"varint"`
}

func (AcknowledgeBlockChange) PacketID() int32 { return 0x05 }

// BlockUpdate sets one block on the client (clientbound 0x09).
type BlockUpdate struct {
	Location int64 `mc:"position"`
	BlockID  int32 `mc:"varint"`
}

func (BlockUpdate) PacketID() int32 { return 0x09 }
