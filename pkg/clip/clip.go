package clip

// ClipTriangle clips t against plane and appends zero, one or two
// triangles to dst. New vertices are appended to arena. Triangles that lie
// entirely inside are appended unchanged; winding is preserved.
// Collinear triangles give no output at any scale.
func ClipTriangle(arena *Arena, plane Plane, t Triangle, dst []Triangle) []Triangle {
	if arena.Degenerate(t) {
		return dst
	}

	var in [3]bool
	n := 0
	for i, idx := range t {
		in[i] = plane.Inside(arena.At(idx).Pos.Vec3())
		if in[i] {
			n++
		}
	}

	switch n {
	case 0:
		return dst
	case 3:
		return append(dst, t)
	case 1:
		// Start at the inside vertex so the output keeps the input's
		// winding.
		i := find(in, true)
		v, a, b := t[i], t[(i+1)%3], t[(i+2)%3]
		n0 := intersect(arena, plane, v, a)
		n1 := intersect(arena, plane, v, b)
		return append(dst, Triangle{v, n0, n1})
	default:
		// in0 and in1 follow the outside vertex in winding order.
		o := find(in, false)
		out, in0, in1 := t[o], t[(o+1)%3], t[(o+2)%3]
		n0 := intersect(arena, plane, in0, out)
		n1 := intersect(arena, plane, in1, out)
		return append(dst,
			Triangle{in0, in1, n0},
			Triangle{in1, n1, n0},
		)
	}
}

func find(in [3]bool, want bool) int {
	for i, v := range in {
		if v == want {
			return i
		}
	}
	return -1
}

func intersect(arena *Arena, plane Plane, from, to int) int {
	v, _ := plane.Intersect(arena.At(from), arena.At(to))
	return arena.Add(v)
}

// Clipper clips triangles against an ordered plane set, reusing its
// scratch buffers between calls.
type Clipper struct {
	cur, next []Triangle
}

// ClipAll clips t against every plane in turn. Each plane processes the
// whole output of the previous one. The surviving triangles are appended
// to dst.
func (c *Clipper) ClipAll(arena *Arena, planes []Plane, t Triangle, dst []Triangle) []Triangle {
	c.cur = append(c.cur[:0], t)
	for _, p := range planes {
		c.next = c.next[:0]
		for _, tri := range c.cur {
			c.next = ClipTriangle(arena, p, tri, c.next)
		}
		c.cur, c.next = c.next, c.cur
		if len(c.cur) == 0 {
			return dst
		}
	}
	return append(dst, c.cur...)
}
