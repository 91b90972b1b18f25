package guard

import "strings"

// Region is a group of routes sharing one guard instance.
type Region struct {
	Name         string
	RequiresAuth bool
	ShowsHeader  bool
}

var (
	PublicRegion    = Region{Name: "public"}
	ProtectedRegion = Region{Name: "protected", RequiresAuth: true, ShowsHeader: true}
)

// Route is a navigable page.
type Route struct {
	Path   string
	Title  string
	Region Region
}

var routes = []Route{
	{Path: "/signin", Title: "Sign In", Region: PublicRegion},
	{Path: "/signup", Title: "Sign Up", Region: PublicRegion},

	{Path: "/admin", Title: "Admin Dashboard", Region: ProtectedRegion},
	{Path: "/admin/connections", Title: "Database Connections", Region: ProtectedRegion},
	{Path: "/admin/api-keys", Title: "API Keys", Region: ProtectedRegion},
	{Path: "/admin/users", Title: "Users", Region: ProtectedRegion},

	{Path: "/dashboard", Title: "Dashboard", Region: ProtectedRegion},
	{Path: "/dashboard/schema", Title: "Schema Explorer", Region: ProtectedRegion},
	{Path: "/dashboard/validation", Title: "Schema Validation", Region: ProtectedRegion},
	{Path: "/dashboard/eda", Title: "EDA Analysis", Region: ProtectedRegion},
	{Path: "/dashboard/relationships", Title: "Relationship Analysis", Region: ProtectedRegion},
	{Path: "/dashboard/askvault", Title: "AskVault", Region: ProtectedRegion},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Lookup finds the route registered for path. A trailing slash is ignored.
func Lookup(path string) (Route, bool) {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// NotFound is the catch-all page, outside every region.
func NotFound(path string) Route {
	return Route{Path: path, Title: "Not Found"}
}

// Link is one sidebar entry of the application shell.
type Link struct {
	Title string
	URL   string
}

// Shell describes the navigation chrome for a protected area.
type Shell struct {
	Heading  string
	BasePath string
	Links    []Link
	Active   string
}

var adminLinks = []Link{
	{Title: "Dashboard", URL: "/admin"},
	{Title: "Database Connections", URL: "/admin/connections"},
	{Title: "API Keys", URL: "/admin/api-keys"},
	{Title: "Users", URL: "/admin/users"},
}

var userLinks = []Link{
	{Title: "Dashboard", URL: "/dashboard"},
	{Title: "Schema Explorer", URL: "/dashboard/schema"},
	{Title: "Schema Validation", URL: "/dashboard/validation"},
	{Title: "EDA Analysis", URL: "/dashboard/eda"},
	{Title: "Relationship Analysis", URL: "/dashboard/relationships"},
	{Title: "AskVault", URL: "/dashboard/askvault"},
}

// ShellFor picks the admin or user shell for a protected path.
func ShellFor(path string) Shell {
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return Shell{Heading: "Admin Panel", BasePath: "/admin", Links: adminLinks, Active: path}
	}
	return Shell{Heading: "Data Analytics", BasePath: "/dashboard", Links: userLinks, Active: path}
}
