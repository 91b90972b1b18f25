package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hongminglow/vault-console/internal/guard"
)

// maxRedirects bounds redirect chains; the route table never needs more than one.
const maxRedirects = 2

func newOpenCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a console route through the route guard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			route := openRoute(cmd.OutOrStdout(), a, args[0])
			a.Nav.current = route.Path
			return nil
		},
	}
}

// openRoute follows guard redirects and renders the page it lands on.
func openRoute(out io.Writer, a *App, path string) guard.Route {
	for i := 0; ; i++ {
		route, action := guard.Navigate(a.Session, path)
		switch action.Kind {
		case guard.Loading:
			fmt.Fprintln(out, "Loading...")
			return route
		case guard.Redirect:
			if i >= maxRedirects {
				fmt.Fprintf(out, "redirect loop at %s\n", path)
				return route
			}
			fmt.Fprintf(out, "redirect %s → %s\n", path, action.Target)
			path = action.Target
			continue
		}
		renderRoute(out, route)
		return route
	}
}

func renderRoute(out io.Writer, route guard.Route) {
	if !route.Region.ShowsHeader {
		fmt.Fprintf(out, "[%s] %s\n", route.Path, route.Title)
		return
	}
	shell := guard.ShellFor(route.Path)
	fmt.Fprintf(out, "== %s ==\n", shell.Heading)
	for _, link := range shell.Links {
		marker := " "
		if link.URL == shell.Active {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %-24s %s\n", marker, link.Title, link.URL)
	}
	fmt.Fprintf(out, "[%s] %s\n", route.Path, route.Title)
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List console routes and their protection",
		Args:  cobra.NoArgs,
		// no session needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range guard.Routes() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-26s %-10s %s\n", r.Path, r.Region.Name, r.Title)
			}
			return nil
		},
	}
}
