package tree

// Cycles returns the ids of nodes that lie on a cycle of parent links or of
// child links, in table order. An acyclic tree returns nil.
func (t *Tree) Cycles() []string {
	onCycle := make([]bool, len(t.nodes))
	t.markParentCycles(onCycle)
	t.markChildCycles(onCycle)

	var out []string
	for i, c := range onCycle {
		if c {
			out = append(out, t.nodes[i].ID)
		}
	}
	return out
}

// markParentCycles follows each parent chain once. A chain that runs into a
// node visited during the same walk has found a cycle.
func (t *Tree) markParentCycles(onCycle []bool) {
	walk := make([]int, len(t.nodes)) // 0 unvisited, else walk number
	for start := range t.nodes {
		if walk[start] != 0 {
			continue
		}
		id := start + 1
		i := start
		for i != none && walk[i] == 0 {
			walk[i] = id
			i = t.parent[i]
		}
		if i == none || walk[i] != id {
			continue
		}
		for j := i; ; {
			onCycle[j] = true
			j = t.parent[j]
			if j == i {
				break
			}
		}
	}
}

// markChildCycles runs a white/gray/black depth-first search over child
// links. A gray child is a back edge; every node on the stack from that
// child up to the current node is on the cycle.
func (t *Tree) markChildCycles(onCycle []bool) {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(t.nodes))
	var stack []int

	var dfs func(int)
	dfs = func(i int) {
		color[i] = gray
		stack = append(stack, i)
		for _, c := range t.children[i] {
			switch color[c] {
			case white:
				dfs(c)
			case gray:
				for k := len(stack) - 1; k >= 0; k-- {
					onCycle[stack[k]] = true
					if stack[k] == c {
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
	}

	for i := range t.nodes {
		if color[i] == white {
			dfs(i)
		}
	}
}
