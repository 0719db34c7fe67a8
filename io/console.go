package io

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"io"
	"sqt/feature"
	"strings"
)

var depthColors = []*color.Color{
	color.New(color.FgBlue, color.Bold),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
	color.New(color.FgRed),
}

// PrintTree writes one line per node, indented and coloured by its depth. Stored items are listed below their leaf
// when withItems is set.
func PrintTree(writer io.Writer, tree *feature.Tree, withItems bool) error {
	var err error
	tree.Walk(func(node *feature.Node) bool {
		if err != nil {
			return false
		}

		indent := strings.Repeat("  ", node.Depth())
		nodeColor := depthColors[node.Depth()%len(depthColors)]

		kind := "node"
		if node.IsLeaf() {
			kind = "leaf"
		}

		items := node.Items()
		_, err = nodeColor.Fprintf(writer, "%s%s %s depth=%d items=%d\n", indent, kind, node.Bounds().String(), node.Depth(), len(items))
		if err != nil {
			return false
		}

		if withItems {
			for _, item := range items {
				value := "<nil>"
				if item.Value != nil {
					value = item.Value.String()
				}
				_, err = fmt.Fprintf(writer, "%s  - %s %s\n", indent, item.Point.String(), value)
				if err != nil {
					return false
				}
			}
		}

		return true
	})

	return errors.Wrap(err, "Unable to print tree")
}
