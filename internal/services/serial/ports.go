package serial

import (
	"fmt"
	bugst "go.bug.st/serial"
	"sort"
	"strings"
)

// ListPorts returns the serial ports present on the host, optionally narrowed
// to names starting with one of the given prefixes.
func ListPorts(prefixes ...string) ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	return filterPorts(ports, prefixes), nil
}

func filterPorts(ports []string, prefixes []string) []string {
	found := make([]string, 0, len(ports))
	for _, port := range ports {
		if len(prefixes) == 0 {
			found = append(found, port)
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(port, prefix) {
				found = append(found, port)
				break
			}
		}
	}
	sort.Strings(found)
	return found
}
