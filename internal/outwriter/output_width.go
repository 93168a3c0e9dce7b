package outwriter

import (
	"os"

	"github.com/huangsam/gitmine/internal/contract"
	"golang.org/x/term"
)

// GetMaxTablePathWidth calculates the maximum width for path cells in table output
// based on terminal width and the width taken by the other columns.
func GetMaxTablePathWidth(cfg *contract.Config, otherColumnsWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - otherColumnsWidth - 20
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
