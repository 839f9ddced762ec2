package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-theft-craft/oreveins/pkg/text"
)

func sendSystemMsg(s Sender, msg string, color text.Color) error {
	return s.SendMessage(text.Text(msg).WithColor(color))
}

func sendSuccessMsg(s Sender, msg string) error {
	return sendSystemMsg(s, msg, text.Gold)
}

func sendErrorMsg(s Sender, msg string) error {
	return sendSystemMsg(s, msg, text.Red)
}

// RegisterDefaults registers every built-in command.
func RegisterDefaults(d *Dispatcher) {
	d.Register(HelpCommand(d))
	d.Register(ListCommand())
	d.Register(SeedCommand())
	d.Register(SaveCommand())
	d.Register(TransferCommand())
	d.Register(ScoreboardCommand())
}

// commandNames suggests registered command names.
type commandNames struct{ d *Dispatcher }

func (c commandNames) Consume(_ *Env, _ Sender, t *Tokens) (Arg, bool) {
	s, ok := t.Pop()
	if !ok {
		return Arg{}, false
	}
	return Arg{Raw: s, Value: strings.TrimPrefix(s, "/")}, true
}

func (c commandNames) Suggest(_ *Env, _ Sender, partial string) []string {
	var names []string
	for _, t := range c.d.Trees() {
		names = append(names, t.Name())
	}
	return filterStrings(partial, names)
}

func HelpCommand(d *Dispatcher) *Tree {
	return NewTree([]string{"help", "?"}, "Show available commands").
		Execute(func(_ context.Context, inv *Invocation) error {
			if err := sendSystemMsg(inv.Sender, "--- Available Commands ---", text.Yellow); err != nil {
				return err
			}
			for _, t := range d.Trees() {
				line := fmt.Sprintf("/%s - %s", t.Name(), t.Description)
				if err := sendSystemMsg(inv.Sender, line, text.Yellow); err != nil {
					return err
				}
			}
			return nil
		}).
		Then(Argument("command", commandNames{d}).Execute(func(_ context.Context, inv *Invocation) error {
			name, _ := inv.Args.String("command")
			usages, err := d.Usages(name)
			if err != nil {
				return err
			}
			for _, u := range usages {
				c := text.Text("/" + u).WithColor(text.Yellow).WithClick(text.SuggestCommand("/" + u))
				if err := inv.Sender.SendMessage(c); err != nil {
					return err
				}
			}
			return nil
		}))
}

func ListCommand() *Tree {
	return NewTree([]string{"list"}, "Show online players").
		Execute(func(_ context.Context, inv *Invocation) error {
			names := inv.Env.Players.Names()
			return sendSuccessMsg(inv.Sender, fmt.Sprintf("Online players (%d): %s", len(names), strings.Join(names, ", ")))
		})
}

func SeedCommand() *Tree {
	return NewTree([]string{"seed"}, "Show world seed").
		Execute(func(_ context.Context, inv *Invocation) error {
			seed := strconv.FormatInt(inv.Env.Seed, 10)
			msg := text.Text("Seed: ").Append(
				text.Text("[").
					Append(text.Text(seed).WithColor(text.Green)).
					Append(text.Text("]")).
					WithClick(text.CopyToClipboard(seed)).
					WithHover(text.ShowText("Click to copy to clipboard")),
			)
			return inv.Sender.SendMessage(msg)
		})
}

func SaveCommand() *Tree {
	return NewTree([]string{"save"}, "Save world data").
		Execute(func(ctx context.Context, inv *Invocation) error {
			if inv.Env.Save == nil {
				return sendErrorMsg(inv.Sender, "Save is not available.")
			}
			if err := sendSuccessMsg(inv.Sender, "Saving world..."); err != nil {
				return err
			}
			if err := inv.Env.Save(ctx); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			return sendSuccessMsg(inv.Sender, "Save complete.")
		})
}
