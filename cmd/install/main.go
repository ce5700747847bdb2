// Command install installs the Thonny bundle it is shipped with.
package main

import (
	"fmt"
	"os"

	"github.com/thonny/linux_installer"
)

func main() {
	env, err := linux_installer.NewProcessEnvironment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(linux_installer.Run(os.Args[1:], env))
}
