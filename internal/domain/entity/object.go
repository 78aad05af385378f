package entity

import "image"

// Object is one connected foreground region found in a mask.
type Object struct {
	ID     int
	Pixels []image.Point
	Bounds image.Rectangle
}

func (o Object) Area() int {
	return len(o.Pixels)
}

// ObjectSet is the global set of objects found in one mask.
type ObjectSet struct {
	Width   int
	Height  int
	Objects []Object
}

// FilteredObject is the global object set restricted to one ROI.
type FilteredObject struct {
	Label   string
	Objects []Object // kept objects, clipped to the ROI in cutto mode
	Mask    *Mask    // filtered mask, same size as the source mask
	Area    int      // foreground pixels in Mask
}

// Empty reports whether nothing of the plant falls inside the ROI.
func (f *FilteredObject) Empty() bool {
	return f == nil || f.Area == 0
}
