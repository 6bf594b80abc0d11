// Command deptox finds and removes dependency directories reclaiming disk
// space across a project tree.
package main

import (
	"github.com/alexwhin/deptox-core/cmd"
)

func main() {
	cmd.Execute()
}
