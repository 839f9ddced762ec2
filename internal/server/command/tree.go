package command

import (
	"context"
	"strings"
)

// Executor runs a command once its arguments are consumed.
type Executor func(ctx context.Context, inv *Invocation) error

// Invocation is what an executor gets to work with.
type Invocation struct {
	Sender Sender
	Args   Args
	Env    *Env
}

type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeArgument
	nodeRequire
)

// Node is one step in a command tree. Build nodes with Literal, Argument,
// ArgumentDefaultName and Require.
type Node struct {
	kind     nodeKind
	name     string
	consumer Consumer
	require  func(Sender) bool
	children []*Node
	exec     Executor
}

// Literal matches a fixed word.
func Literal(word string) *Node {
	return &Node{kind: nodeLiteral, name: word}
}

// Argument consumes a value stored under name.
func Argument(name string, c Consumer) *Node {
	return &Node{kind: nodeArgument, name: name, consumer: c}
}

// ArgumentDefaultName is Argument named after the consumer.
func ArgumentDefaultName(c NamedConsumer) *Node {
	return Argument(c.DefaultName(), c)
}

// Require only lets senders matching pred reach the nodes below it.
func Require(pred func(Sender) bool) *Node {
	return &Node{kind: nodeRequire, require: pred}
}

// Then appends children. Children are tried in order.
func (n *Node) Then(children ...*Node) *Node {
	n.children = append(n.children, children...)
	return n
}

// Execute makes the node a place where a command line may end.
func (n *Node) Execute(e Executor) *Node {
	n.exec = e
	return n
}

// Tree is one command and its aliases.
type Tree struct {
	Names       []string
	Description string
	root        *Node
}

func NewTree(names []string, description string) *Tree {
	return &Tree{Names: names, Description: description, root: &Node{kind: nodeLiteral}}
}

func (t *Tree) Name() string { return t.Names[0] }

func (t *Tree) Then(children ...*Node) *Tree {
	t.root.Then(children...)
	return t
}

// Execute sets the executor for the bare command with no arguments.
func (t *Tree) Execute(e Executor) *Tree {
	t.root.Execute(e)
	return t
}

// match is the outcome of walking a tree.
type match struct {
	exec Executor
	args Args
}

// walkState collects why no path matched.
type walkState struct {
	env         *Env
	sender      Sender
	denied      bool
	badArg      string
	badArgDepth int
}

func (w *walkState) walk(n *Node, t *Tokens, args Args, depth int) (*match, bool) {
	switch n.kind {
	case nodeRequire:
		if !n.require(w.sender) {
			if t.Empty() {
				w.denied = true
			}
			return nil, false
		}
	case nodeLiteral:
		if n.name != "" {
			s, ok := t.Pop()
			if !ok || !strings.EqualFold(s, n.name) {
				return nil, false
			}
		}
	case nodeArgument:
		if t.Empty() {
			return nil, false
		}
		arg, ok := n.consumer.Consume(w.env, w.sender, t)
		if !ok {
			if depth >= w.badArgDepth {
				w.badArg, w.badArgDepth = n.name, depth
			}
			return nil, false
		}
		args = cloneArgs(args)
		args[n.name] = arg
	}

	if t.Empty() && n.exec != nil {
		return &match{exec: n.exec, args: args}, true
	}
	for _, child := range n.children {
		if m, ok := w.walk(child, t.clone(), args, depth+1); ok {
			return m, true
		}
	}
	return nil, false
}

func cloneArgs(a Args) Args {
	out := make(Args, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// suggest returns completions for partial, the last word of a line whose
// earlier words are in t.
func (w *walkState) suggest(n *Node, t *Tokens, args Args, partial string, out *[]string) {
	switch n.kind {
	case nodeRequire:
		if !n.require(w.sender) {
			return
		}
	case nodeLiteral:
		if n.name != "" {
			if t.Empty() {
				if strings.HasPrefix(strings.ToLower(n.name), strings.ToLower(partial)) {
					*out = append(*out, n.name)
				}
				return
			}
			s, _ := t.Pop()
			if !strings.EqualFold(s, n.name) {
				return
			}
		}
	case nodeArgument:
		if t.Empty() {
			*out = append(*out, n.consumer.Suggest(w.env, w.sender, partial)...)
			return
		}
		arg, ok := n.consumer.Consume(w.env, w.sender, t)
		if !ok {
			return
		}
		args = cloneArgs(args)
		args[n.name] = arg
	}
	for _, child := range n.children {
		w.suggest(child, t.clone(), args, partial, out)
	}
}

// usages lists every complete form of the tree, e.g. "transfer <hostname> <port>".
func (t *Tree) usages() []string {
	var out []string
	var visit func(n *Node, prefix []string)
	visit = func(n *Node, prefix []string) {
		switch n.kind {
		case nodeLiteral:
			if n.name != "" {
				prefix = append(prefix, n.name)
			}
		case nodeArgument:
			prefix = append(prefix, "<"+n.name+">")
		}
		if n.exec != nil {
			out = append(out, strings.Join(prefix, " "))
		}
		for _, c := range n.children {
			visit(c, append([]string(nil), prefix...))
		}
	}
	visit(t.root, []string{t.Name()})

	// A require node repeats its parent's form.
	seen := make(map[string]bool, len(out))
	uniq := out[:0]
	for _, u := range out {
		if !seen[u] {
			seen[u] = true
			uniq = append(uniq, u)
		}
	}
	return uniq
}
