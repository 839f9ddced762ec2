package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-theft-craft/oreveins/internal/server/scoreboard"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

const (
	argObjective   = "objective"
	argDisplayName = "displayName"
	argTarget      = "target"
	argSlot        = "slot"
)

// objectiveNames accepts any word and suggests existing objectives.
type objectiveNames struct{}

func (objectiveNames) Consume(env *Env, s Sender, t *Tokens) (Arg, bool) {
	return SimpleArgConsumer{}.Consume(env, s, t)
}

func (objectiveNames) Suggest(env *Env, _ Sender, partial string) []string {
	var names []string
	for _, o := range env.Scoreboard.Objectives() {
		names = append(names, o.Name)
	}
	return filterStrings(partial, names)
}

func scoreConsumer() *BoundedNumConsumer[int32] {
	return NewBoundedNum[int32]().Name("score")
}

// scoreboardFeedback turns expected scoreboard errors into red feedback.
func scoreboardFeedback(inv *Invocation, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, scoreboard.ErrObjectiveExists):
		return sendErrorMsg(inv.Sender, "An objective already exists by that name")
	case errors.Is(err, scoreboard.ErrUnknownObjective):
		return sendErrorMsg(inv.Sender, "Unknown scoreboard objective")
	case errors.Is(err, scoreboard.ErrInvalidName):
		return sendErrorMsg(inv.Sender, fmt.Sprintf("Objective names must be 1 to %d characters", scoreboard.MaxNameLength))
	}
	return err
}

func objectivesAdd(_ context.Context, inv *Invocation) error {
	name, _ := inv.Args.String(argObjective)
	display, ok := inv.Args.String(argDisplayName)
	if !ok {
		display = name
	}
	err := inv.Env.Scoreboard.AddObjective(scoreboard.NewObjective(name, text.Text(display), scoreboard.RenderInteger, nil))
	if err != nil {
		return scoreboardFeedback(inv, err)
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("Created new objective [%s]", display))
}

func objectivesRemove(_ context.Context, inv *Invocation) error {
	name, _ := inv.Args.String(argObjective)
	if err := inv.Env.Scoreboard.RemoveObjective(name); err != nil {
		return scoreboardFeedback(inv, err)
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("Removed objective [%s]", name))
}

func objectivesList(_ context.Context, inv *Invocation) error {
	objs := inv.Env.Scoreboard.Objectives()
	if len(objs) == 0 {
		return sendSuccessMsg(inv.Sender, "There are no objectives")
	}
	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = "[" + o.DisplayName.PlainText() + "]"
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("There are %d objective(s): %s", len(objs), strings.Join(names, ", ")))
}

func objectivesSetDisplay(_ context.Context, inv *Invocation) error {
	slotName, _ := inv.Args.String(argSlot)
	slot, err := scoreboard.ParseDisplaySlot(slotName)
	if err != nil {
		return err
	}
	name, _ := inv.Args.String(argObjective)
	if err := inv.Env.Scoreboard.SetDisplay(slot, name); err != nil {
		return scoreboardFeedback(inv, err)
	}
	if name == "" {
		return sendSuccessMsg(inv.Sender, fmt.Sprintf("Cleared display slot %s", slot))
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("Set display slot %s to show objective %s", slot, name))
}

func playersSet(_ context.Context, inv *Invocation) error {
	target, _ := inv.Args.String(argTarget)
	objective, _ := inv.Args.String(argObjective)
	value, _, _ := scoreConsumer().Find(inv.Args)

	err := inv.Env.Scoreboard.UpdateScore(scoreboard.NewScore(target, objective, value))
	if err != nil {
		return scoreboardFeedback(inv, err)
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("Set [%s] for %s to %d", objective, target, value))
}

func playersAdd(_ context.Context, inv *Invocation) error {
	target, _ := inv.Args.String(argTarget)
	objective, _ := inv.Args.String(argObjective)
	delta, _, _ := scoreConsumer().Find(inv.Args)

	value, err := inv.Env.Scoreboard.AddScore(target, objective, delta)
	if err != nil {
		return scoreboardFeedback(inv, err)
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("Added %d to [%s] for %s (now %d)", delta, objective, target, value))
}

func playersGet(_ context.Context, inv *Invocation) error {
	target, _ := inv.Args.String(argTarget)
	objective, _ := inv.Args.String(argObjective)

	if _, ok := inv.Env.Scoreboard.Objective(objective); !ok {
		return scoreboardFeedback(inv, scoreboard.ErrUnknownObjective)
	}
	value, ok := inv.Env.Scoreboard.Score(target, objective)
	if !ok {
		return sendErrorMsg(inv.Sender, fmt.Sprintf("Can't get value of %s for %s; none is set", objective, target))
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("%s has %d [%s]", target, value, objective))
}

func playersReset(_ context.Context, inv *Invocation) error {
	target, _ := inv.Args.String(argTarget)
	objective, _ := inv.Args.String(argObjective)

	if err := inv.Env.Scoreboard.ResetScore(target, objective); err != nil {
		return scoreboardFeedback(inv, err)
	}
	if objective == "" {
		return sendSuccessMsg(inv.Sender, fmt.Sprintf("Reset all scores of %s", target))
	}
	return sendSuccessMsg(inv.Sender, fmt.Sprintf("Reset [%s] for %s", objective, target))
}

// ScoreboardCommand manages objectives and scores.
func ScoreboardCommand() *Tree {
	objective := func() *Node { return Argument(argObjective, objectiveNames{}) }
	slots := LiteralChoices{"list", "sidebar", "below_name"}

	return NewTree([]string{"scoreboard"}, "Manage scoreboard objectives and scores").Then(
		Literal("objectives").Then(
			Literal("list").Execute(objectivesList),
			Literal("add").Then(
				objective().Execute(objectivesAdd).
					Then(Argument(argDisplayName, GreedyStringConsumer{}).Execute(objectivesAdd)),
			),
			Literal("remove").Then(objective().Execute(objectivesRemove)),
			Literal("setdisplay").Then(
				Argument(argSlot, slots).Execute(objectivesSetDisplay).
					Then(objective().Execute(objectivesSetDisplay)),
			),
		),
		Literal("players").Then(
			Literal("set").Then(
				Argument(argTarget, SimpleArgConsumer{}).Then(
					objective().Then(ArgumentDefaultName(scoreConsumer()).Execute(playersSet)),
				),
			),
			Literal("add").Then(
				Argument(argTarget, SimpleArgConsumer{}).Then(
					objective().Then(ArgumentDefaultName(scoreConsumer()).Execute(playersAdd)),
				),
			),
			Literal("get").Then(
				Argument(argTarget, SimpleArgConsumer{}).Then(objective().Execute(playersGet)),
			),
			Literal("reset").Then(
				Argument(argTarget, SimpleArgConsumer{}).Execute(playersReset).
					Then(objective().Execute(playersReset)),
			),
		),
	)
}
