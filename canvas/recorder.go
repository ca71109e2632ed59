package canvas

import (
	"fmt"
	"strings"

	"treeviz/geometry"
)

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpClear OpKind = iota
	OpLine
	OpFillCircle
	OpStrokeCircle
	OpFillRect
	OpStrokeRect
	OpText
)

// String returns the operation name
func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpLine:
		return "line"
	case OpFillCircle:
		return "fill-circle"
	case OpStrokeCircle:
		return "stroke-circle"
	case OpFillRect:
		return "fill-rect"
	case OpStrokeRect:
		return "stroke-rect"
	case OpText:
		return "text"
	default:
		return "unknown"
	}
}

// Op is one recorded drawing call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	A, B   geometry.Vec // line endpoints; A is the center of circles and the anchor of text
	R      float64      // circle radius or rect corner radius
	Rect   geometry.Rect
	Stroke Stroke
	Fill   Fill
	Font   Font
	Text   string
}

// Recorder is a Surface that records calls instead of drawing them.
type Recorder struct {
	Width, Height float64
	Ops           []Op
}

// NewRecorder creates a recorder with the given pixel size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (width, height float64) { return r.Width, r.Height }

func (r *Recorder) Clear(bg Color) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Fill: Fill{Color: bg}})
}

func (r *Recorder) StrokeLine(a, b geometry.Vec, s Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, A: a, B: b, Stroke: s})
}

func (r *Recorder) FillCircle(center geometry.Vec, radius float64, f Fill) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, A: center, R: radius, Fill: f})
}

func (r *Recorder) StrokeCircle(center geometry.Vec, radius float64, s Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, A: center, R: radius, Stroke: s})
}

func (r *Recorder) FillRect(rect geometry.Rect, radius float64, f Fill) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Rect: rect, R: radius, Fill: f})
}

func (r *Recorder) StrokeRect(rect geometry.Rect, radius float64, s Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeRect, Rect: rect, R: radius, Stroke: s})
}

func (r *Recorder) DrawText(p geometry.Vec, text string, f Font) {
	r.Ops = append(r.Ops, Op{Kind: OpText, A: p, Text: text, Font: f})
}

// Reset drops all recorded operations.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Filter returns the recorded operations of the given kind, in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns every recorded text string, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Filter(OpText) {
		out = append(out, op.Text)
	}
	return out
}

// String lists the recorded operations, one per line.
func (r *Recorder) String() string {
	var sb strings.Builder
	for _, op := range r.Ops {
		switch op.Kind {
		case OpLine:
			fmt.Fprintf(&sb, "%s (%.1f,%.1f)-(%.1f,%.1f) %s w=%.1f\n", op.Kind, op.A.X, op.A.Y, op.B.X, op.B.Y, op.Stroke.Color, op.Stroke.Width)
		case OpFillCircle, OpStrokeCircle:
			fmt.Fprintf(&sb, "%s (%.1f,%.1f) r=%.1f\n", op.Kind, op.A.X, op.A.Y, op.R)
		case OpText:
			fmt.Fprintf(&sb, "%s (%.1f,%.1f) %q\n", op.Kind, op.A.X, op.A.Y, op.Text)
		default:
			fmt.Fprintf(&sb, "%s\n", op.Kind)
		}
	}
	return sb.String()
}
