package text

// ClickAction is what the client does when a component is clicked.
type ClickAction string

const (
	ClickOpenURL         ClickAction = "open_url"
	ClickRunCommand      ClickAction = "run_command"
	ClickSuggestCommand  ClickAction = "suggest_command"
	ClickCopyToClipboard ClickAction = "copy_to_clipboard"
	ClickChangePage      ClickAction = "change_page"
)

type ClickEvent struct {
	Action ClickAction `json:"action"`
	Value  string      `json:"value"`
}

func RunCommand(cmd string) ClickEvent {
	return ClickEvent{Action: ClickRunCommand, Value: cmd}
}

func SuggestCommand(cmd string) ClickEvent {
	return ClickEvent{Action: ClickSuggestCommand, Value: cmd}
}

func OpenURL(url string) ClickEvent {
	return ClickEvent{Action: ClickOpenURL, Value: url}
}

func CopyToClipboard(s string) ClickEvent {
	return ClickEvent{Action: ClickCopyToClipboard, Value: s}
}
