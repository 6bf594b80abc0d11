package climisc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/alexwhin/deptox-core/internal/scancontroller"
)

// PromptConfirmation displays the directories that would be deleted and asks
// the user to type "yes" to proceed. Returns true only on an exact "yes"
// response (case-sensitive, whitespace-trimmed); any other input or a read
// error is treated as a decline.
func PromptConfirmation(in io.Reader, out io.Writer, entries []scancontroller.DirectoryEntry) bool {
	home, _ := os.UserHomeDir()

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(out, "\nThe following directories will be deleted:")

	var total int64
	for _, e := range entries {
		path := shortenHome(e.Path, home)
		fmt.Fprintf(out, "  %s %s  (%s)\n", path, cyan.Sprint("["+e.Category.Label()+"]"), FormatSize(e.SizeBytes))
		total += e.SizeBytes
	}

	bold.Fprintf(out, "\nTotal: %s will be freed.\n", FormatSize(total))
	fmt.Fprint(out, "Type 'yes' to proceed: ")

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

// shortenHome replaces the home directory prefix with ~ for display.
func shortenHome(path, home string) string {
	if home != "" && strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
