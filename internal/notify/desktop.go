package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ExecSender shells out to the platform notification tool.
type ExecSender struct{}

func (ExecSender) Send(d Delivery) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", d.Request.Title, d.Request.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(d.Request.Body), escapeAppleScript(d.Request.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func (ExecSender) Available() bool {
	switch runtime.GOOS {
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	default:
		return false
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
