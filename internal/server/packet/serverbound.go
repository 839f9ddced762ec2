package packet

// Serverbound play packets

// ChatCommand is a command typed by the player, without the leading slash
// (serverbound 0x04).
type ChatCommand struct {
	Command string `mc:"string"`
}

func (ChatCommand) PacketID() int32 { return 0x04 }

// ChatMessage is a chat line typed by the player (serverbound 0x06). Signature
// and acknowledgement fields are kept raw; the server runs in offline mode.
type ChatMessage struct {
	Message   string `mc:"string"`
	Timestamp int64  `mc:"i64"`
	Salt      int64  `mc:"i64"`
	Trailer   []byte `mc:"rest"`
}

func (ChatMessage) PacketID() int32 { return 0x06 }

// CommandSuggestionsRequest asks for tab completions of Text (serverbound 0x0B).
type CommandSuggestionsRequest struct {
	TransactionID int32  `mc:"varint"`
	Text          string `mc:"string"`
}

func (CommandSuggestionsRequest) PacketID() int32 { return 0x0B }

// KeepAliveServerbound is the client's echo of KeepAliveClientbound (serverbound 0x18).
type KeepAliveServerbound struct {
	KeepAliveID int64 `mc:"i64"`
}

func (KeepAliveServerbound) PacketID() int32 { return 0x18 }

// SignedChatCommand is a command carrying argument signatures (serverbound
// 0x05). Only the command text is used.
type SignedChatCommand struct {
	Command string `mc:"string"`
	Trailer []byte `mc:"rest"`
}

func (SignedChatCommand) PacketID() int32 { return 0x05 }

// SetPlayerPosition (serverbound 0x1A).
type SetPlayerPosition struct {
	X        float64 `mc:"f64"`
	FeetY    float64 `mc:"f64"`
	Z        float64 `mc:"f64"`
	OnGround bool    `mc:"bool"`
}

func (SetPlayerPosition) PacketID() int32 { return 0x1A }

// SetPlayerPositionAndRotation (serverbound 0x1B).
type SetPlayerPositionAndRotation struct {
	X        float64 `mc:"f64"`
	FeetY    float64 `mc:"f64"`
	Z        float64 `mc:"f64"`
	Yaw      float32 `mc:"f32"`
	Pitch    float32 `mc:"f32"`
	OnGround bool    `mc:"bool"`
}

func (SetPlayerPositionAndRotation) PacketID() int32 { return 0x1B }

// Player action statuses.
const (
	ActionStartDigging  int32 = 0
	ActionCancelDigging int32 = 1
	ActionFinishDigging int32 = 2
)

// PlayerAction reports digging and similar actions (serverbound 0x24).
type PlayerAction struct {
	Status   int32 `mc:"varint"`
	Location int64 `mc:"position"`
	Face     int8  `mc:"i8"`
	Sequence int32 `mc:"varint"`
}

func (PlayerAction) PacketID() int32 { return 0x24 }
