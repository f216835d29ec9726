package noise

import (
	"math"
)

// Node is one vertex of an evaluation graph. Eval must be a pure function of
// its coordinates: graphs are shared read-only between chunk builders.
type Node interface {
	Eval(x, y, z float64) float64
}

// Func adapts a plain function to Node.
type Func func(x, y, z float64) float64

func (f Func) Eval(x, y, z float64) float64 { return f(x, y, z) }

// Constant always evaluates to its value.
type Constant float64

func (c Constant) Eval(_, _, _ float64) float64 { return float64(c) }

// Axis returns one input coordinate unchanged.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) Eval(x, y, z float64) float64 {
	switch a {
	case AxisX:
		return x
	case AxisY:
		return y
	default:
		return z
	}
}

// Radial is the euclidean distance from the origin.
type Radial struct{}

func (Radial) Eval(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

type binary struct {
	a, b Node
	op   func(a, b float64) float64
}

func (n binary) Eval(x, y, z float64) float64 {
	return n.op(n.a.Eval(x, y, z), n.b.Eval(x, y, z))
}

func Add(a, b Node) Node {
	return binary{a: a, b: b, op: func(a, b float64) float64 { return a + b }}
}

func Subtract(a, b Node) Node {
	return binary{a: a, b: b, op: func(a, b float64) float64 { return a - b }}
}

func Multiply(a, b Node) Node {
	return binary{a: a, b: b, op: func(a, b float64) float64 { return a * b }}
}

// Divide yields 0 where the divisor is 0.
func Divide(a, b Node) Node {
	return binary{a: a, b: b, op: func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}}
}

// ClampNode limits its source to [Low, High].
type ClampNode struct {
	Src       Node
	Low, High Node
}

func Clamp(src, low, high Node) Node {
	return ClampNode{Src: src, Low: low, High: high}
}

func (n ClampNode) Eval(x, y, z float64) float64 {
	return clamp(n.Src.Eval(x, y, z), n.Low.Eval(x, y, z), n.High.Eval(x, y, z))
}

// ScaleOffsetNode computes Src*Scale + Offset.
type ScaleOffsetNode struct {
	Src           Node
	Scale, Offset float64
}

func ScaleOffset(src Node, scale, offset float64) Node {
	return ScaleOffsetNode{Src: src, Scale: scale, Offset: offset}
}

func (n ScaleOffsetNode) Eval(x, y, z float64) float64 {
	return n.Src.Eval(x, y, z)*n.Scale + n.Offset
}

// ScaleDomainNode multiplies the input coordinates before sampling Src.
// A zero Z factor flattens a 3D field into a heightmap.
type ScaleDomainNode struct {
	Src     Node
	X, Y, Z float64
}

func ScaleDomain(src Node, sx, sy, sz float64) Node {
	return ScaleDomainNode{Src: src, X: sx, Y: sy, Z: sz}
}

func (n ScaleDomainNode) Eval(x, y, z float64) float64 {
	return n.Src.Eval(x*n.X, y*n.Y, z*n.Z)
}

// TranslateDomainNode samples Src at coordinates shifted by per-axis fields.
// Nil axes are not translated.
type TranslateDomainNode struct {
	Src     Node
	X, Y, Z Node
}

func TranslateDomain(src, tx, ty, tz Node) Node {
	return TranslateDomainNode{Src: src, X: tx, Y: ty, Z: tz}
}

func TranslateZ(src, tz Node) Node {
	return TranslateDomainNode{Src: src, Z: tz}
}

func (n TranslateDomainNode) Eval(x, y, z float64) float64 {
	dx, dy, dz := 0.0, 0.0, 0.0
	if n.X != nil {
		dx = n.X.Eval(x, y, z)
	}
	if n.Y != nil {
		dy = n.Y.Eval(x, y, z)
	}
	if n.Z != nil {
		dz = n.Z.Eval(x, y, z)
	}
	return n.Src.Eval(x+dx, y+dy, z+dz)
}

// BiasNode applies Perlin's bias curve t^(ln b / ln 0.5) to its source.
type BiasNode struct {
	Src  Node
	Bias float64
}

func Bias(src Node, b float64) Node {
	return BiasNode{Src: src, Bias: b}
}

func (n BiasNode) Eval(x, y, z float64) float64 {
	return bias(n.Bias, n.Src.Eval(x, y, z))
}

func bias(b, t float64) float64 {
	if t <= 0 || b <= 0 {
		return 0
	}
	return math.Pow(t, math.Log(b)/math.Log(0.5))
}

// SelectNode picks Low or High by comparing Control against Threshold.
// Within Falloff of the threshold the two are blended with a smoothstep.
type SelectNode struct {
	Low, High          Node
	Control, Threshold Node
	Falloff            float64
}

func Select(low, high, control, threshold Node, falloff float64) Node {
	return SelectNode{Low: low, High: high, Control: control, Threshold: threshold, Falloff: falloff}
}

func (n SelectNode) Eval(x, y, z float64) float64 {
	c := n.Control.Eval(x, y, z)
	t := n.Threshold.Eval(x, y, z)
	f := math.Abs(n.Falloff)

	if f == 0 {
		if c > t {
			return n.High.Eval(x, y, z)
		}
		return n.Low.Eval(x, y, z)
	}

	switch {
	case c < t-f:
		return n.Low.Eval(x, y, z)
	case c > t+f:
		return n.High.Eval(x, y, z)
	}
	w := (c - (t - f)) / (2 * f)
	w = w * w * (3 - 2*w)
	return lerp(n.Low.Eval(x, y, z), n.High.Eval(x, y, z), w)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
