package main

import (
	"context"
	"errors"
	"net"

	"kanban/internal/api"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "unauthorized":
			lines = append(lines, "hint: log in with `kanban login <username> --password-stdin` and export KANBAN_API_TOKEN.")
		case "forbidden":
			lines = append(lines, "hint: this operation needs a different role or task ownership.")
		case "resource_exhausted":
			lines = append(lines, "hint: too many failed logins; retry later.")
		}
		if apiErr.Code == "" {
			lines = append(lines, "hint: verify KANBAN_API_URL points to a kanban server.")
		}
		if apiErr.Status >= 500 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase KANBAN_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a kanban server is running at KANBAN_API_URL.",
			"hint: start local server manually with: kanban srv",
		)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
