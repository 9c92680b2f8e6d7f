// Command analyze runs a single analysis in-process and prints the report.
package main

import (
	"errors"
	"fmt"
	"os"

	service "github.com/okian/cfcoach/internal/app"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Report printed
	ExitInvalid = 1 // Handle rejected or unknown to the platform
	ExitError   = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, service.ErrInvalidHandle) || errors.Is(err, service.ErrInvalidAccount) {
			os.Exit(ExitInvalid)
		}
		os.Exit(ExitError)
	}
}
