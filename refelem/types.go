package refelem

import "fmt"

// GeometryType identifies the shape of a reference element
type GeometryType uint8

const (
	Tet GeometryType = iota
	Hex
	Prism
	Pyramid
	Tri
	Rectangle
	Line
)

// Dim returns the dimension of the reference element for this geometry type
func (gt GeometryType) Dim() int {
	switch gt {
	case Line:
		return 1
	case Tri, Rectangle:
		return 2
	case Tet, Hex, Prism, Pyramid:
		return 3
	default:
		return -1
	}
}

func (gt GeometryType) String() string {
	switch gt {
	case Tet:
		return "Tet"
	case Hex:
		return "Hex"
	case Prism:
		return "Prism"
	case Pyramid:
		return "Pyramid"
	case Tri:
		return "Tri"
	case Rectangle:
		return "Rectangle"
	case Line:
		return "Line"
	default:
		return fmt.Sprintf("GeometryType(%d)", uint8(gt))
	}
}
