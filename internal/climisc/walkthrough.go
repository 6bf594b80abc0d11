package climisc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/alexwhin/deptox-core/internal/scancontroller"
)

// RunWalkthrough presents each discovered directory one-by-one and asks the
// user whether to keep or remove it. It returns only the entries marked for
// removal. If no entries exist or none are marked for removal, it returns nil.
func RunWalkthrough(in io.Reader, out io.Writer, entries []scancontroller.DirectoryEntry) []scancontroller.DirectoryEntry {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	fmt.Fprintf(out, "\nFound %d dependency directories. Review each to keep or remove:\n", len(entries))

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	reader := bufio.NewReader(in)
	var removed []scancontroller.DirectoryEntry

	for i, e := range entries {
		fmt.Fprintln(out)
		bold.Fprintf(out, "  [%d/%d] %s\n", i+1, len(entries), e.Path)
		fmt.Fprintf(out, "  %s  %s\n", cyan.Sprint("["+e.Category.Label()+"]"), FormatSize(e.SizeBytes))
		fmt.Fprint(out, "  keep or remove? [k/r]: ")

		if readChoice(reader, out) == "remove" {
			removed = append(removed, e)
		}
	}

	if len(removed) == 0 {
		fmt.Fprintln(out, "Nothing marked for removal.")
		return nil
	}
	return removed
}

// readChoice reads user input and returns either "keep" or "remove". On EOF
// or read error, it defaults to "keep" (a safe default). On invalid input it
// re-prompts until a valid response is given.
func readChoice(reader *bufio.Reader, out io.Writer) string {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "keep"
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "r", "remove":
			return "remove"
		case "k", "keep":
			return "keep"
		default:
			fmt.Fprint(out, "  Please enter 'k' to keep or 'r' to remove: ")
		}
	}
}
