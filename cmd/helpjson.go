package cmd

import (
	"io"
)

// helpJSON is the structured help payload printed by --help-json, intended
// for AI agents driving the CLI programmatically.
type helpJSON struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Categories  []categoryInfo `json:"categories"`
	Commands    []commandInfo  `json:"commands"`
}

type commandInfo struct {
	Use   string `json:"use"`
	Short string `json:"short"`
}

// printHelpJSON writes a structured description of the CLI surface to w.
func printHelpJSON(w io.Writer) {
	var commands []commandInfo
	for _, c := range rootCmd.Commands() {
		commands = append(commands, commandInfo{Use: c.Use, Short: c.Short})
	}
	encodeJSON(w, helpJSON{
		Name:        "deptox",
		Description: rootCmd.Short,
		Categories:  categoryInfos(),
		Commands:    commands,
	})
}
