package commands

import "fmt"

// parseOnOff interprets a tri-state flag value: empty means "not set".
func parseOnOff(flag, value string) (v bool, ok bool, err error) {
	switch value {
	case "":
		return false, false, nil
	case "on", "true", "1":
		return true, true, nil
	case "off", "false", "0":
		return false, true, nil
	default:
		return false, false, fmt.Errorf("--%s must be on or off, got %q", flag, value)
	}
}
