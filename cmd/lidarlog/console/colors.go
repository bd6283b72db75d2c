package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Red   = color.New(color.FgRed).SprintFunc()
	Green = color.New(color.FgGreen).SprintFunc()
)
