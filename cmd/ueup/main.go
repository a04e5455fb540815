// Command ueup builds an Unreal Engine project and opens it in Rider.
package main

import (
	"os"

	"github.com/uetools/ueup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
