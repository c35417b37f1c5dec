// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// shortHexLength is how many hex characters of each hash the tree
// view shows.
const shortHexLength = 16

// colorProfile resolves --color for output written to w. "auto" colors
// only when w is a terminal.
func colorProfile(w io.Writer, mode string) (termenv.Profile, error) {
	switch mode {
	case "always":
		return termenv.ANSI256, nil
	case "never":
		return termenv.Ascii, nil
	case "auto", "":
		if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			return termenv.ANSI256, nil
		}
		return termenv.Ascii, nil
	default:
		return termenv.Ascii, cli.Validation("--color must be auto, always or never, got %q", mode)
	}
}

// treeRenderer draws a sealed tree as an indented outline: the root
// first, then each subtree left before right, leaves labelled with
// their piece index or as filler.
type treeRenderer struct {
	tree   *merkle.Tree
	output strings.Builder

	root     lipgloss.Style
	internal lipgloss.Style
	piece    lipgloss.Style
	filler   lipgloss.Style
	branch   lipgloss.Style

	// nextLeaf is the index of the next leaf in left-to-right order.
	nextLeaf int
}

func newTreeRenderer(w io.Writer, tree *merkle.Tree, profile termenv.Profile) *treeRenderer {
	// SetColorProfile pins the profile; without it the renderer
	// re-detects from the environment.
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	return &treeRenderer{
		tree:     tree,
		root:     renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		internal: renderer.NewStyle().Foreground(lipgloss.Color("6")),
		piece:    renderer.NewStyle().Foreground(lipgloss.Color("10")),
		filler:   renderer.NewStyle().Faint(true),
		branch:   renderer.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Render returns the outline followed by a one-line level summary.
func (r *treeRenderer) Render() string {
	r.output.Reset()
	r.nextLeaf = 0

	root := r.tree.Root()
	r.output.WriteString(r.root.Render(shortHex(root.Hash())+" (root, "+r.tree.Algorithm()+")") + "\n")
	if internal, ok := root.(*merkle.Internal); ok {
		r.node(internal.Left(), "", false)
		r.node(internal.Right(), "", true)
	} else {
		// A single-piece tree: the root is the leaf.
		r.nextLeaf++
	}

	levels := merkle.Levels(root)
	fmt.Fprintf(&r.output, "%d levels, %d leaves (%d pieces, %d filler)\n",
		len(levels), len(levels[len(levels)-1]), r.tree.PieceCount(), r.tree.FillerCount())
	return r.output.String()
}

func (r *treeRenderer) node(element merkle.Element, prefix string, last bool) {
	connector, extension := "├── ", "│   "
	if last {
		connector, extension = "└── ", "    "
	}
	r.output.WriteString(r.branch.Render(prefix+connector) + r.label(element) + "\n")

	if internal, ok := element.(*merkle.Internal); ok {
		r.node(internal.Left(), prefix+extension, false)
		r.node(internal.Right(), prefix+extension, true)
	}
}

func (r *treeRenderer) label(element merkle.Element) string {
	hash := shortHex(element.Hash())
	if _, ok := element.(*merkle.Leaf); !ok {
		return r.internal.Render(hash)
	}
	index := r.nextLeaf
	r.nextLeaf++
	if index < r.tree.PieceCount() {
		return r.piece.Render(fmt.Sprintf("%s piece %d", hash, index))
	}
	return r.filler.Render(hash + " filler")
}

func shortHex(hash merkle.Hash) string {
	hex := hash.Hex()
	if len(hex) > shortHexLength {
		return hex[:shortHexLength]
	}
	return hex
}
