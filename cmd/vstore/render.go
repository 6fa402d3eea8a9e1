package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vstore/internal/demo"
	"github.com/vango-dev/vstore/pkg/host"
	"github.com/vango-dev/vstore/pkg/render"
	"github.com/vango-dev/vstore/pkg/vdom"
)

func renderCmd(opts *globalOptions) *cobra.Command {
	var (
		clicks []string
		text   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the app to stdout",
		Long: `Mount the counter app, apply clicks in order, and print the result.

Examples:
  vstore render
  vstore render --click btn1 --click btn1
  vstore render --text --seed seed.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)
			app, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return runRender(cmd.OutOrStdout(), app, clicks, text)
		},
	}

	cmd.Flags().StringSliceVar(&clicks, "click", nil, "Click the element with this id (repeatable)")
	cmd.Flags().BoolVar(&text, "text", false, "Print text content instead of HTML")

	return cmd
}

func runRender(w io.Writer, app *demo.App, clicks []string, text bool) error {
	root := host.New()
	defer root.Unmount()
	root.Mount(app.Tree())

	for _, id := range clicks {
		el := findClickable(root.Tree(), id)
		if el == nil {
			return fmt.Errorf("no clickable element with id %q", id)
		}
		root.Act(el.Props["onclick"].(func()))
	}

	if text {
		_, err := fmt.Fprintln(w, render.Text(root.Tree()))
		return err
	}
	if err := render.Write(w, root.Tree()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func findClickable(node *vdom.VNode, id string) *vdom.VNode {
	var found *vdom.VNode
	node.Walk(func(n *vdom.VNode) bool {
		if n.Kind != vdom.KindElement || n.Props.String("id") != id {
			return true
		}
		if _, ok := n.Props["onclick"].(func()); ok {
			found = n
		}
		return false
	})
	return found
}

