// feedctl drives the social feed client from the command line.
package main

import (
	"os"

	"github.com/d60-Lab/social-feed/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}
