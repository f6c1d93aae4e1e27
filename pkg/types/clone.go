package types

// Clone returns a deep copy of n. The copy shares no node with n, so either
// tree can be mutated without affecting the other.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}

	c := *n
	c.Declarations = cloneList(n.Declarations)
	c.Params = cloneList(n.Params)
	c.Arguments = cloneList(n.Arguments)
	c.Body = cloneList(n.Body)

	c.ID = Clone(n.ID)
	c.Init = Clone(n.Init)
	c.Callee = Clone(n.Callee)
	c.LHS = Clone(n.LHS)
	c.RHS = Clone(n.RHS)
	c.Expr = Clone(n.Expr)
	return &c
}

func cloneList(list []*Node) []*Node {
	if list == nil {
		return nil
	}
	out := make([]*Node, len(list))
	for i, item := range list {
		out[i] = Clone(item)
	}
	return out
}
