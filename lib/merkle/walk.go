// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

// Levels returns the tree in level order: Levels(root)[0] is the root,
// the last level holds the deepest nodes. Within a level, nodes appear
// left to right. Used for diagnostic rendering.
func Levels(root Element) [][]Element {
	var levels [][]Element
	current := []Element{root}
	for len(current) > 0 {
		levels = append(levels, current)
		var next []Element
		for _, element := range current {
			switch node := element.(type) {
			case *Leaf:
			case *Internal:
				next = append(next, node.left, node.right)
			default:
				unknownElement(element)
			}
		}
		current = next
	}
	return levels
}
