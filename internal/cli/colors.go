package cli

import (
	"strconv"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// formatStatus colors an HTTP status by class. Zero means the request never
// got a response.
func formatStatus(status int) string {
	switch {
	case status == 0:
		return colorError("ERR")
	case status >= 200 && status < 300:
		return colorSuccess(strconv.Itoa(status))
	case status >= 300 && status < 400:
		return colorInfo(strconv.Itoa(status))
	case status >= 400 && status < 500:
		return colorWarn(strconv.Itoa(status))
	default:
		return colorError(strconv.Itoa(status))
	}
}
