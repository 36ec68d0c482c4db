package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/misfitdev/spotr-mcp/pkg/registry"
	"github.com/spf13/cobra"
)

func newToolsCmd(opts *options) *cobra.Command {
	var resources bool

	cmd := &cobra.Command{
		Use:   "tools [query]",
		Short: "List the tools the server declares",
		Long: "List the declared tools, filtered by name, alias or description.\n" +
			"Use \"category:<name>\" to list one category.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, _, err := buildRegistry(opts, io.Discard)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			entries := reg.List(query)
			if len(entries) == 0 {
				return fmt.Errorf("no tools match %q", query)
			}
			printTools(cmd.OutOrStdout(), reg, entries)
			if resources {
				printResources(cmd.OutOrStdout(), reg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&resources, "resources", false, "also list resources and prompts")
	return cmd
}

func printTools(w io.Writer, reg *registry.Registry, entries []registry.ToolEntry) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	category := ""
	for _, entry := range entries {
		if entry.Category != category {
			category = entry.Category
			fmt.Fprintf(w, "\n%s\n", cyan(strings.ToUpper(category)))
			fmt.Fprintln(w, strings.Repeat("-", 60))
		}

		tool := entry.Tool
		fmt.Fprintf(w, "%s", green(tool.Name))
		if aliases := reg.Aliases(tool.Name); len(aliases) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(aliases, ", "))
		}
		var hints []string
		if h := tool.Annotations.ReadOnlyHint; h != nil && *h {
			hints = append(hints, "read-only")
		}
		if h := tool.Annotations.DestructiveHint; h != nil && *h {
			hints = append(hints, "destructive")
		}
		if len(hints) > 0 {
			fmt.Fprintf(w, " %s", yellow("["+strings.Join(hints, ", ")+"]"))
		}
		fmt.Fprintln(w)

		summary, _, _ := strings.Cut(tool.Description, "\n")
		fmt.Fprintf(w, "    %s\n", summary)
		if len(tool.InputSchema.Required) > 0 {
			fmt.Fprintf(w, "    %s: %s\n", cyan("required"), strings.Join(tool.InputSchema.Required, ", "))
		}
	}
}

func printResources(w io.Writer, reg *registry.Registry) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", cyan("RESOURCES"))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range reg.ListResources() {
		fmt.Fprintf(w, "%s  %s\n", green(r.URI), r.Name)
	}
	for _, t := range reg.Templates() {
		fmt.Fprintf(w, "%s  %s\n", green(t.Template.URITemplate.Raw()), t.Template.Name)
	}

	fmt.Fprintf(w, "\n%s\n", cyan("PROMPTS"))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, p := range reg.Prompts() {
		var args []string
		for _, a := range p.Prompt.Arguments {
			name := a.Name
			if !a.Required {
				name += "?"
			}
			args = append(args, name)
		}
		fmt.Fprintf(w, "%s(%s)  %s\n", green(p.Prompt.Name), strings.Join(args, ", "), p.Prompt.Description)
	}
}
