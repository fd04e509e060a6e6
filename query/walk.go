package query

// Inspect traverses exp in depth-first order, calling f for each expression.
// If f returns false, the children of that expression are skipped.
func Inspect(exp Exp, f func(Exp) bool) {
	if exp == nil || !f(exp) {
		return
	}
	switch e := exp.(type) {
	case *NestExp:
		Inspect(e.Exp, f)
	case *NotExp:
		Inspect(e.Exp, f)
	case *LogicExp:
		Inspect(e.Left, f)
		Inspect(e.Right, f)
	case *CompareExp:
		// leaf
	}
}

// Params returns the parameters referenced by exp, in order of appearance.
// Duplicates are reported once.
func Params(exp Exp) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(exp, func(e Exp) bool {
		if c, ok := e.(*CompareExp); ok {
			if p, ok := c.Right.(*Param); ok && !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		}
		return true
	})
	return names
}

// Columns returns the columns referenced by exp on either side of a
// comparison, in order of appearance. Duplicates are reported once.
func Columns(exp Exp) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	Inspect(exp, func(e Exp) bool {
		if c, ok := e.(*CompareExp); ok {
			add(c.Left.Name)
			if col, ok := c.Right.(*Column); ok {
				add(col.Name)
			}
		}
		return true
	})
	return names
}

// NodeParams returns every parameter referenced anywhere in the projection
// tree of n, in depth-first order.
func NodeParams(n *Node) []string {
	var names []string
	seen := make(map[string]bool)
	var visit func(item *Item)
	visit = func(item *Item) {
		if item.Where != nil {
			for _, name := range Params(item.Where.Exp) {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		for _, child := range item.Children {
			visit(child)
		}
	}
	visit(n.Item)
	return names
}
