package command

import (
	"context"
	"fmt"

	"github.com/go-theft-craft/oreveins/pkg/text"
)

const (
	argHostname = "hostname"
	argPlayers  = "players"

	defaultTransferPort = 25565
)

func portConsumer() *BoundedNumConsumer[int32] {
	return NewBoundedNum[int32]().Name("port").Min(1).Max(65535)
}

// transferTarget resolves hostname and port. ok is false when the port was
// rejected and the sender has already been told.
func transferTarget(inv *Invocation) (host string, port int32, ok bool, err error) {
	host, found := inv.Args.String(argHostname)
	if !found {
		return "", 0, false, &SyntaxError{Command: "transfer", Arg: argHostname}
	}

	port, given, boundsErr := portConsumer().Find(inv.Args)
	switch {
	case !given:
		port = defaultTransferPort
	case boundsErr != nil:
		if err := inv.Sender.SendMessage(text.Text("Port must be between 1 and 65535.").WithColor(text.Red)); err != nil {
			return "", 0, false, err
		}
		return "", 0, false, nil
	}
	return host, port, true, nil
}

func transferSelf(_ context.Context, inv *Invocation) error {
	host, port, ok, err := transferTarget(inv)
	if !ok {
		return err
	}

	p, isPlayer := inv.Sender.Player()
	if !isPlayer {
		return ErrInvalidRequirement
	}
	inv.Env.Log.Info(fmt.Sprintf("[%s: Transferring %s to %s:%d]", p.Username, p.Username, host, port))
	return p.Transfer(host, port)
}

func transferPlayers(_ context.Context, inv *Invocation) error {
	host, port, ok, err := transferTarget(inv)
	if !ok {
		return err
	}

	players, found := inv.Args.Players(argPlayers)
	if !found {
		return &SyntaxError{Command: "transfer", Arg: argPlayers}
	}
	for _, p := range players {
		if err := p.Transfer(host, port); err != nil {
			inv.Env.Log.Warn("transfer failed", "player", p.Username, "error", err)
			continue
		}
		inv.Env.Log.Info(fmt.Sprintf("[%s: Transferring %s to %s:%d]", inv.Sender.Name(), p.Username, host, port))
	}
	return nil
}

// TransferCommand sends players to another server:
//
//	transfer <hostname>                    the sender, port 25565
//	transfer <hostname> <port>             the sender
//	transfer <hostname> <port> <players>   the selected players
func TransferCommand() *Tree {
	return NewTree([]string{"transfer"}, "Triggers a transfer of a player to another server.").Then(
		Argument(argHostname, SimpleArgConsumer{}).
			Then(Require(IsPlayer).Execute(transferSelf)).
			Then(
				ArgumentDefaultName(portConsumer()).
					Then(Require(IsPlayer).Execute(transferSelf)).
					Then(Argument(argPlayers, PlayersConsumer{}).Execute(transferPlayers)),
			),
	)
}
