package setting

// Node is one element of the encoding tree: either a single value or an
// ordered group of child nodes.
type Node struct {
	leaf     *Value
	children []Node
}

// Encoder is anything that contributes bytes to a message.
type Encoder interface {
	Node() Node
}

func Leaf(v Value) Node {
	return Node{leaf: &v}
}

func Group(children ...Node) Node {
	return Node{children: children}
}

// GroupOf builds a group from encoders.
func GroupOf(encoders ...Encoder) Node {
	children := make([]Node, len(encoders))
	for i, e := range encoders {
		children[i] = e.Node()
	}
	return Group(children...)
}

// IsLeaf reports whether the node holds a single value.
func (n Node) IsLeaf() bool { return n.leaf != nil }

// Children returns the node's children (nil for leaves).
func (n Node) Children() []Node { return n.children }

// Flatten returns every value under the node in depth-first order.
func (n Node) Flatten() []Value {
	var out []Value
	n.walk(func(v Value) { out = append(out, v) })
	return out
}

func (n Node) walk(fn func(Value)) {
	if n.leaf != nil {
		fn(*n.leaf)
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

// Len counts the values under the node.
func (n Node) Len() int {
	count := 0
	n.walk(func(Value) { count++ })
	return count
}

// Bytes flattens the node into raw data bytes.
func (n Node) Bytes() []byte {
	out := make([]byte, 0, n.Len())
	n.walk(func(v Value) { out = append(out, v.Byte()) })
	return out
}
