package styles

const (
	ChatIcon  string = "󰭹"
	BotIcon   string = "󰚩"
	UserIcon  string = ""
	ErrorIcon string = "✗"
	CheckIcon string = "✓"
)
