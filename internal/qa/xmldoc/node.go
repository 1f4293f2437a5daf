// Package xmldoc decodes analyzer reports into a generic element tree, so
// extractors can look attributes up by name and report what a node actually
// carries when an expected attribute is missing.
package xmldoc

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

var ErrMissingAttribute = errors.New("missing attribute")

// Node is one XML element with its attributes, direct character data and
// child elements.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

// Parse decodes the document read from r and returns its root element.
// Documents declaring a non UTF-8 encoding are transcoded.
func Parse(r io.Reader) (*Node, error) {
	root := &Node{}
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(root); err != nil {
		return nil, errors.Wrap(err, "error parsing XML data")
	}
	return root, nil
}

// Name is the local tag name.
func (n *Node) Name() string {
	return n.XMLName.Local
}

// Lookup returns the value of the named attribute, if present.
func (n *Node) Lookup(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns the value of a required attribute. The error lists the
// attributes available on the node.
func (n *Node) Attr(name string) (string, error) {
	if v, ok := n.Lookup(name); ok {
		return v, nil
	}
	return "", errors.Wrapf(ErrMissingAttribute, "no attribute '%s' in <%s>. Available attributes: [%s]",
		name, n.Name(), strings.Join(n.AttrNames(), ", "))
}

// AttrOr returns the named attribute or def when it is absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Lookup(name); ok {
		return v
	}
	return def
}

// AttrInt returns a required integer attribute.
func (n *Node) AttrInt(name string) (int, error) {
	v, err := n.Attr(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Wrapf(err, "attribute '%s' of <%s> is not an integer", name, n.Name())
	}
	return i, nil
}

// OptionalInt returns the integer attribute, or nil when it is absent.
func (n *Node) OptionalInt(name string) (*int, error) {
	if _, ok := n.Lookup(name); !ok {
		return nil, nil
	}
	i, err := n.AttrInt(name)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// AttrNames lists the attribute names in document order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.Attrs))
	for _, a := range n.Attrs {
		names = append(names, a.Name.Local)
	}
	return names
}

// ChildrenNamed returns the direct children with the given tag.
func (n *Node) ChildrenNamed(name string) []*Node {
	var children []*Node
	for _, c := range n.Children {
		if c.Name() == name {
			children = append(children, c)
		}
	}
	return children
}

// FirstChild returns the first direct child with the given tag.
func (n *Node) FirstChild(name string) (*Node, error) {
	for _, c := range n.Children {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, errors.Errorf("no <%s> element in <%s>", name, n.Name())
}

// TrimmedText is the direct character data without surrounding whitespace.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text)
}
