package render

// Options selects how one call to Render draws. It is passed by value so
// the settings for a frame cannot change while it is drawn.
type Options struct {
	Fill          bool // Fill triangles
	Wireframe     bool // Stroke triangle outlines after filling
	Textured      bool // Use material textures where present
	ShadeTextures bool // Apply the light scalar to texels as well
	Debug         bool // Log frame statistics

	Background Color
	WireColor  Color
}

// DefaultOptions returns filled, textured rendering on a black background.
func DefaultOptions() Options {
	return Options{
		Fill:       true,
		Textured:   true,
		Background: ColorBlack,
		WireColor:  ColorWhite,
	}
}

// Stats counts what happened to the triangles of one view.
type Stats struct {
	Meshes    int
	Triangles int // Faces entering the pipeline
	Culled    int // Rejected by the back-face test
	Clipped   int // Removed entirely by the near plane
	Drawn     int // Screen triangles emitted after all clipping
	Vertices  int // Arena size at the end of the frame
	Skipped   int // Faces with out-of-range indices
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Meshes += o.Meshes
	s.Triangles += o.Triangles
	s.Culled += o.Culled
	s.Clipped += o.Clipped
	s.Drawn += o.Drawn
	s.Vertices += o.Vertices
	s.Skipped += o.Skipped
}
