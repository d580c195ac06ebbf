package entity

// Tool identifies one analyzer that a scan can run.
type Tool string

const (
	ToolRedirect    Tool = "redirect"
	ToolBrokenLinks Tool = "broken_links"
	ToolSecurity    Tool = "security"
	ToolRobots      Tool = "robots"
	ToolAI          Tool = "ai"
	ToolWhois       Tool = "whois"
)

// AllTools lists every tool in the order a report displays them.
var AllTools = []Tool{ToolRedirect, ToolSecurity, ToolRobots, ToolBrokenLinks, ToolAI, ToolWhois}

// ParseTool reports whether s names a known tool.
func ParseTool(s string) (Tool, bool) {
	for _, t := range AllTools {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
