package ledgerdash

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BuildBalanceTree nests the accounts with a positive balance in snapshot
// under a root named rootName, one level per account segment. Accounts are
// visited in the given order and a node shared by several accounts is created
// once, on first encounter.
//
// An account whose own balance is positive while it also prefixes another
// positive account keeps its children; its balance becomes a leaf child with
// the same name, wrapped in parentheses as long as a sibling already uses it
// ("Assets:Bank" next to "Assets:Bank:Bank" gives the leaf "(Bank)").
func BuildBalanceTree(snapshot map[string]decimal.Decimal, accounts []string, rootName string) *TreemapNode {
	root := &TreemapNode{Name: rootName, Children: []*TreemapNode{}}

	var positive []string
	for _, account := range accounts {
		if snapshot[account].IsPositive() {
			positive = append(positive, account)
		}
	}
	// children names of every account prefixing a positive account.
	prefixes := make(map[string]map[string]bool)
	for _, account := range positive {
		parts := Segments(account)
		for i := 1; i < len(parts); i++ {
			prefix := strings.Join(parts[:i], ":")
			if prefixes[prefix] == nil {
				prefixes[prefix] = make(map[string]bool)
			}
			prefixes[prefix][parts[i]] = true
		}
	}

	// nodes are keyed by their full path below the root.
	nodes := make(map[string]*TreemapNode)
	for _, account := range positive {
		balance := snapshot[account]
		parent, path := root, ""
		parts := Segments(account)
		for i, part := range parts {
			if i > 0 {
				path += ":"
			}
			path += part
			node, ok := nodes[path]
			if !ok {
				node = &TreemapNode{Name: part, Children: []*TreemapNode{}}
				parent.Children = append(parent.Children, node)
				nodes[path] = node
			}
			parent = node
		}

		if children, ok := prefixes[account]; ok {
			name := parts[len(parts)-1]
			for children[name] {
				name = "(" + name + ")"
			}
			leaf := &TreemapNode{Name: name, Value: &balance}
			parent.Children = append(parent.Children, leaf)
			continue
		}
		parent.Value = &balance
		parent.Children = nil
	}
	return root
}
