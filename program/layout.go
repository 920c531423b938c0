package program

// Attribute is one vertex input of the fixed geometry.
type Attribute struct {
	Name string
	// Location is the index the geometry was laid out for; programs may
	// resolve the name to a different index, which the render loop rebinds.
	Location uint32
	// Size is the number of float components.
	Size     int32
	Required bool
}

// Layout is the ordered, interleaved vertex format of the geometry.
type Layout []Attribute

// Stride returns the interleaved vertex size in floats.
func (l Layout) Stride() int32 {
	var n int32
	for _, a := range l {
		n += a.Size
	}
	return n
}

// Offset returns the offset of the named attribute in floats, or -1.
func (l Layout) Offset(name string) int32 {
	var n int32
	for _, a := range l {
		if a.Name == name {
			return n
		}
		n += a.Size
	}
	return -1
}

// QuadLayout is the full-screen quad: a 3-component position that every
// program must consume and a 2-component texture coordinate that programs
// deriving coordinates from position may leave out.
var QuadLayout = Layout{
	{Name: "position", Location: 0, Size: 3, Required: true},
	{Name: "texCoord", Location: 1, Size: 2},
}
