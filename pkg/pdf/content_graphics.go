package pdf

import (
	"bytes"
	"strconv"
)

// matrix is a PDF transformation matrix [a b c d e f], row-vector convention
type matrix struct {
	a, b, c, d, e, f float64
}

func identityMatrix() matrix {
	return matrix{a: 1, d: 1}
}

// mul composes m with n: applying the result is applying m, then n
func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.b*n.c,
		b: m.a*n.b + m.b*n.d,
		c: m.c*n.a + m.d*n.c,
		d: m.c*n.b + m.d*n.d,
		e: m.e*n.a + m.f*n.c + n.e,
		f: m.e*n.b + m.f*n.d + n.f,
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// graphicsState is the subset of the PDF graphics state the extractor tracks
type graphicsState struct {
	ctm       matrix
	lineWidth float64
	stroke    Color
	fill      Color
}

type pathPoint struct {
	x, y float64
}

type pathElement struct {
	op  string // "move", "line", "curve", "close"
	pts []pathPoint
}

// contentGraphicsParser walks a decoded content stream and records the
// stroked and filled vector geometry as line, rectangle and curve objects.
// Text showing operators are ignored; positioned characters come from the
// document backend.
type contentGraphicsParser struct {
	pageHeight float64
	state      graphicsState
	stack      []graphicsState
	path       []pathElement
	objects    Objects
}

// ParseContentGraphics extracts vector graphics from a decoded content
// stream. PDF user space grows upward from the bottom-left corner; emitted
// coordinates grow downward from the top-left, flipped against pageHeight.
func ParseContentGraphics(content []byte, pageHeight float64) Objects {
	p := &contentGraphicsParser{
		pageHeight: pageHeight,
		state: graphicsState{
			ctm:       identityMatrix(),
			lineWidth: 1,
			stroke:    Color{A: 255},
			fill:      Color{A: 255},
		},
	}
	p.run(tokenizeContent(content))
	return p.objects
}

func (p *contentGraphicsParser) run(tokens []string) {
	var operands []string
	skipInline := false

	for _, tok := range tokens {
		if skipInline {
			// Inline image data tokenizes as garbage; drop everything
			// until the closing operator
			if tok == "EI" {
				skipInline = false
			}
			continue
		}
		if !isOperatorToken(tok) {
			operands = append(operands, tok)
			continue
		}
		if tok == "BI" {
			skipInline = true
			operands = operands[:0]
			continue
		}
		p.apply(tok, operands)
		operands = operands[:0]
	}
}

func (p *contentGraphicsParser) apply(op string, operands []string) {
	switch op {
	case "q":
		p.stack = append(p.stack, p.state)
	case "Q":
		if n := len(p.stack); n > 0 {
			p.state = p.stack[n-1]
			p.stack = p.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixOperands(operands); ok {
			p.state.ctm = m.mul(p.state.ctm)
		}
	case "w":
		if v, ok := floatOperand(operands, 0); ok {
			p.state.lineWidth = v
		}

	case "RG":
		if c, ok := rgbOperands(operands); ok {
			p.state.stroke = c
		}
	case "rg":
		if c, ok := rgbOperands(operands); ok {
			p.state.fill = c
		}
	case "G":
		if c, ok := grayOperand(operands); ok {
			p.state.stroke = c
		}
	case "g":
		if c, ok := grayOperand(operands); ok {
			p.state.fill = c
		}
	case "K":
		if c, ok := cmykOperands(operands); ok {
			p.state.stroke = c
		}
	case "k":
		if c, ok := cmykOperands(operands); ok {
			p.state.fill = c
		}

	case "m":
		if pt, ok := pointOperands(operands, 0); ok {
			p.path = append(p.path, pathElement{op: "move", pts: []pathPoint{pt}})
		}
	case "l":
		if pt, ok := pointOperands(operands, 0); ok {
			p.path = append(p.path, pathElement{op: "line", pts: []pathPoint{pt}})
		}
	case "c":
		if pts, ok := pointsOperands(operands, 3); ok {
			p.path = append(p.path, pathElement{op: "curve", pts: pts})
		}
	case "v", "y":
		if pts, ok := pointsOperands(operands, 2); ok {
			p.path = append(p.path, pathElement{op: "curve", pts: pts})
		}
	case "h":
		p.path = append(p.path, pathElement{op: "close"})
	case "re":
		if pts, ok := pointsOperands(operands, 2); ok {
			x, y := pts[0].x, pts[0].y
			w, h := pts[1].x, pts[1].y
			p.path = append(p.path,
				pathElement{op: "move", pts: []pathPoint{{x, y}}},
				pathElement{op: "line", pts: []pathPoint{{x + w, y}}},
				pathElement{op: "line", pts: []pathPoint{{x + w, y + h}}},
				pathElement{op: "line", pts: []pathPoint{{x, y + h}}},
				pathElement{op: "close"},
			)
		}

	case "S":
		p.strokePath(false)
	case "s":
		p.strokePath(true)
	case "f", "F", "f*":
		p.fillPath()
		p.path = nil
	case "B", "B*":
		p.fillPath()
		p.strokePath(false)
	case "b", "b*":
		p.fillPath()
		p.strokePath(true)
	case "n":
		p.path = nil
	}
}

// devicePoint maps a user-space point through the CTM and flips it into
// top-down document space
func (p *contentGraphicsParser) devicePoint(pt pathPoint) (float64, float64) {
	x, y := p.state.ctm.apply(pt.x, pt.y)
	return x, p.pageHeight - y
}

// strokePath records the current path as line and curve objects, then
// discards it
func (p *contentGraphicsParser) strokePath(closeFirst bool) {
	if closeFirst {
		p.path = append(p.path, pathElement{op: "close"})
	}

	var cur, start pathPoint
	started := false

	for _, e := range p.path {
		switch e.op {
		case "move":
			cur = e.pts[0]
			start = cur
			started = true
		case "line":
			if !started {
				continue
			}
			p.addLine(cur, e.pts[0])
			cur = e.pts[0]
		case "curve":
			if !started {
				continue
			}
			p.addCurve(append([]pathPoint{cur}, e.pts...))
			cur = e.pts[len(e.pts)-1]
		case "close":
			if started && cur != start {
				p.addLine(cur, start)
				cur = start
			}
		}
	}

	p.path = nil
}

// fillPath records a filled rectangular path as a rect object. Filled
// non-rectangular shapes carry no ruling geometry and are skipped. The path
// is kept so fill-and-stroke operators can stroke it afterwards.
func (p *contentGraphicsParser) fillPath() {
	if !p.pathIsRectangle() {
		return
	}

	first := true
	var minX, minY, maxX, maxY float64
	for _, e := range p.path {
		for _, pt := range e.pts {
			x, y := p.devicePoint(pt)
			if first {
				minX, maxX = x, x
				minY, maxY = y, y
				first = false
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if first || maxX <= minX || maxY <= minY {
		return
	}

	p.objects.Rects = append(p.objects.Rects, RectObject{
		X0:        minX,
		Y0:        minY,
		X1:        maxX,
		Y1:        maxY,
		FillColor: p.state.fill,
	})
}

func (p *contentGraphicsParser) pathIsRectangle() bool {
	lines, closed := 0, false
	for _, e := range p.path {
		switch e.op {
		case "line":
			lines++
		case "curve":
			return false
		case "close":
			closed = true
		}
	}
	return (lines == 3 && closed) || lines == 4
}

func (p *contentGraphicsParser) addLine(from, to pathPoint) {
	x0, y0 := p.devicePoint(from)
	x1, y1 := p.devicePoint(to)
	p.objects.Lines = append(p.objects.Lines, LineObject{
		X0:          x0,
		Y0:          y0,
		X1:          x1,
		Y1:          y1,
		Width:       p.state.lineWidth,
		StrokeColor: p.state.stroke,
	})
}

func (p *contentGraphicsParser) addCurve(pts []pathPoint) {
	points := make([]Point, 0, len(pts))
	for _, pt := range pts {
		x, y := p.devicePoint(pt)
		points = append(points, Point{X: x, Y: y})
	}
	p.objects.Curves = append(p.objects.Curves, CurveObject{
		Points:      points,
		Width:       p.state.lineWidth,
		StrokeColor: p.state.stroke,
	})
}

// Operand helpers. Content streams from the wild carry malformed operand
// lists; every helper reports failure instead of panicking so a bad operator
// degrades to a no-op.

func floatOperand(operands []string, i int) (float64, bool) {
	if i >= len(operands) {
		return 0, false
	}
	v, err := strconv.ParseFloat(operands[i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func pointOperands(operands []string, i int) (pathPoint, bool) {
	x, okX := floatOperand(operands, i*2)
	y, okY := floatOperand(operands, i*2+1)
	return pathPoint{x: x, y: y}, okX && okY
}

func pointsOperands(operands []string, n int) ([]pathPoint, bool) {
	pts := make([]pathPoint, 0, n)
	for i := 0; i < n; i++ {
		pt, ok := pointOperands(operands, i)
		if !ok {
			return nil, false
		}
		pts = append(pts, pt)
	}
	return pts, true
}

func matrixOperands(operands []string) (matrix, bool) {
	vals := make([]float64, 6)
	for i := range vals {
		v, ok := floatOperand(operands, i)
		if !ok {
			return matrix{}, false
		}
		vals[i] = v
	}
	return matrix{a: vals[0], b: vals[1], c: vals[2], d: vals[3], e: vals[4], f: vals[5]}, true
}

func rgbOperands(operands []string) (Color, bool) {
	r, okR := floatOperand(operands, 0)
	g, okG := floatOperand(operands, 1)
	b, okB := floatOperand(operands, 2)
	if !(okR && okG && okB) {
		return Color{}, false
	}
	return Color{R: colorByte(r), G: colorByte(g), B: colorByte(b), A: 255}, true
}

func grayOperand(operands []string) (Color, bool) {
	v, ok := floatOperand(operands, 0)
	if !ok {
		return Color{}, false
	}
	b := colorByte(v)
	return Color{R: b, G: b, B: b, A: 255}, true
}

func cmykOperands(operands []string) (Color, bool) {
	c, okC := floatOperand(operands, 0)
	m, okM := floatOperand(operands, 1)
	y, okY := floatOperand(operands, 2)
	k, okK := floatOperand(operands, 3)
	if !(okC && okM && okY && okK) {
		return Color{}, false
	}
	return Color{
		R: colorByte((1 - c) * (1 - k)),
		G: colorByte((1 - m) * (1 - k)),
		B: colorByte((1 - y) * (1 - k)),
		A: 255,
	}, true
}

func colorByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// tokenizeContent splits a content stream into operand and operator tokens.
// Strings, hex strings and dictionary delimiters are collapsed to
// placeholders: their contents never matter for graphics extraction but must
// not be mistaken for operators.
func tokenizeContent(content []byte) []string {
	var tokens []string
	r := bytes.NewReader(content)

	for r.Len() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		if isPDFWhitespace(b) {
			continue
		}

		switch b {
		case '(':
			skipStringLiteral(r)
			tokens = append(tokens, "()")
		case '<':
			if next, err := r.ReadByte(); err == nil && next == '<' {
				tokens = append(tokens, "<<")
			} else {
				if err == nil {
					r.UnreadByte()
				}
				skipHexString(r)
				tokens = append(tokens, "<>")
			}
		case '>':
			// Dictionary end; a lone '>' is malformed and dropped
			if next, err := r.ReadByte(); err == nil && next != '>' {
				r.UnreadByte()
				continue
			}
			tokens = append(tokens, ">>")
		case '[', ']', '{', '}':
			tokens = append(tokens, string(b))
		case '/':
			tokens = append(tokens, "/"+readRegularToken(r))
		case '%':
			skipToLineEnd(r)
		default:
			r.UnreadByte()
			if tok := readRegularToken(r); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}

	return tokens
}

func isPDFWhitespace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func readRegularToken(r *bytes.Reader) string {
	var buf []byte
	for r.Len() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		if isPDFWhitespace(b) || isPDFDelimiter(b) {
			if isPDFDelimiter(b) {
				r.UnreadByte()
			}
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

func skipStringLiteral(r *bytes.Reader) {
	depth := 1
	for r.Len() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case '\\':
			r.ReadByte()
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func skipHexString(r *bytes.Reader) {
	for r.Len() > 0 {
		b, err := r.ReadByte()
		if err != nil || b == '>' {
			return
		}
	}
}

func skipToLineEnd(r *bytes.Reader) {
	for r.Len() > 0 {
		b, err := r.ReadByte()
		if err != nil || b == '\n' || b == '\r' {
			return
		}
	}
}

// isOperatorToken reports whether tok is a content stream operator rather
// than an operand
func isOperatorToken(tok string) bool {
	if tok == "" {
		return false
	}
	switch tok[0] {
	case '(', '<', '>', '[', ']', '{', '}', '/':
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}
