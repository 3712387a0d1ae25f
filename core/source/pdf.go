package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
)

// PDF reads typeset gazettes with pdfcpu. A run is bold when the BaseFont
// of its font resource contains "bold". Text is decoded as WinAnsi unless
// it carries a UTF-16 byte order mark; CID fonts without a simple encoding
// come out as noise and are left to the glyph allow-list.
type PDF struct {
	conf *model.Configuration
}

// NewPDF creates a PDF source.
func NewPDF() *PDF {
	return &PDF{conf: model.NewDefaultConfiguration()}
}

// Runs extracts styled runs page by page.
func (s *PDF) Runs(ctx context.Context, name string, data []byte) (*core.Document, error) {
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), s.conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	var b builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fonts, err := pageFonts(pctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("page %d fonts: %w", pageNr, err)
		}
		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", pageNr, err)
		}
		parseContent(&b, content, fonts)
		b.endPage()
	}
	return b.finish(name)
}

// pageFonts maps the page's font resource names to their BaseFont names.
func pageFonts(pctx *model.Context, pageNr int) (map[string]string, error) {
	_, _, inherited, err := pctx.PageDict(pageNr, true)
	if err != nil {
		return nil, err
	}
	fonts := map[string]string{}
	if inherited == nil || inherited.Resources == nil {
		return fonts, nil
	}
	obj, found := inherited.Resources.Find("Font")
	if !found {
		return fonts, nil
	}
	fontDict, err := pctx.DereferenceDict(obj)
	if err != nil || fontDict == nil {
		return fonts, err
	}
	for key, ref := range fontDict {
		fd, err := pctx.DereferenceDict(ref)
		if err != nil || fd == nil {
			continue
		}
		if base := fd.NameEntry("BaseFont"); base != nil {
			fonts[key] = *base
		}
	}
	return fonts, nil
}

// textState follows the operators that matter for run extraction.
type textState struct {
	b        *builder
	fonts    map[string]string
	bold     bool
	size     float64
	y        float64
	lastY    float64
	shown    bool
	leading  float64
	operands []types.Object
}

// lineTolerance is the vertical move, in text space units, below which two
// shows are on the same line.
const lineTolerance = 0.5

func parseContent(b *builder, content []byte, fonts map[string]string) {
	st := &textState{b: b, fonts: fonts, size: 12}
	lx := &lexer{data: content}
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.op == "" {
			st.operands = append(st.operands, tok.obj)
			continue
		}
		st.apply(tok.op)
		st.operands = st.operands[:0]
	}
	b.endBlock()
}

func (st *textState) apply(op string) {
	switch op {
	case "BT":
		st.y = 0
	case "Tf":
		if len(st.operands) >= 2 {
			if n, ok := st.operands[len(st.operands)-2].(types.Name); ok {
				font := st.fonts[string(n)]
				if font == "" {
					font = string(n)
				}
				st.bold = strings.Contains(strings.ToLower(font), "bold")
			}
			if size, ok := number(st.operands[len(st.operands)-1]); ok && size > 0 {
				st.size = size
			}
		}
	case "TL":
		if v, ok := st.lastNumber(); ok {
			st.leading = v
		}
	case "Td", "TD":
		if len(st.operands) >= 2 {
			if ty, ok := number(st.operands[len(st.operands)-1]); ok {
				st.y += ty
				if op == "TD" {
					st.leading = -ty
				}
			}
		}
	case "Tm":
		if f, ok := st.lastNumber(); ok {
			st.y = f
		}
	case "T*":
		st.nextLine()
	case "Tj":
		st.show(st.lastString())
	case "'", "\"":
		st.nextLine()
		st.show(st.lastString())
	case "TJ":
		st.showArray()
	}
}

func (st *textState) nextLine() {
	if st.leading != 0 {
		st.y -= st.leading
	} else {
		st.y -= st.size
	}
}

// show appends text to the builder, starting a new line when the baseline
// moved and a new block when it jumped more than two line heights.
func (st *textState) show(text string) {
	if text == "" {
		return
	}
	if st.shown {
		dy := math.Abs(st.y - st.lastY)
		switch {
		case dy > 2*st.size:
			st.b.endBlock()
		case dy > lineTolerance:
			st.b.endLine()
		default:
			text = " " + text
		}
	}
	st.b.add(text, st.bold)
	st.lastY = st.y
	st.shown = true
}

// showArray handles TJ: strings with kerning adjustments in thousandths of
// an em. Adjustments wider than a quarter em are word gaps.
func (st *textState) showArray() {
	if len(st.operands) == 0 {
		return
	}
	arr, ok := st.operands[len(st.operands)-1].(types.Array)
	if !ok {
		return
	}
	var sb strings.Builder
	for _, o := range arr {
		switch v := o.(type) {
		case types.StringLiteral:
			sb.WriteString(decodeText([]byte(v)))
		case types.HexLiteral:
			sb.WriteString(decodeText([]byte(v)))
		default:
			if n, ok := number(o); ok && n < -250 {
				sb.WriteByte(' ')
			}
		}
	}
	st.show(sb.String())
}

func (st *textState) lastString() string {
	if len(st.operands) == 0 {
		return ""
	}
	switch v := st.operands[len(st.operands)-1].(type) {
	case types.StringLiteral:
		return decodeText([]byte(v))
	case types.HexLiteral:
		return decodeText([]byte(v))
	}
	return ""
}

func (st *textState) lastNumber() (float64, bool) {
	if len(st.operands) == 0 {
		return 0, false
	}
	return number(st.operands[len(st.operands)-1])
}

func number(o types.Object) (float64, bool) {
	switch v := o.(type) {
	case types.Float:
		return float64(v), true
	case types.Integer:
		return float64(v), true
	}
	return 0, false
}

// decodeText converts raw string bytes to UTF-8.
func decodeText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		u := make([]uint16, 0, len(raw)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			u = append(u, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(u))
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// token is either an operand object or an operator.
type token struct {
	obj types.Object
	op  string
}

// lexer tokenizes a decoded content stream. Literal strings are unescaped
// and hex strings decoded; both are returned as raw bytes wrapped in the
// pdfcpu literal types. Inline images and dictionaries are skipped.
type lexer struct {
	data []byte
	pos  int
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func isSpace(c byte) bool {
	return strings.IndexByte(" \t\r\n\f\x00", c) >= 0
}

func (lx *lexer) next() (token, bool) {
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		switch {
		case isSpace(c):
			lx.pos++
		case c == '%':
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' && lx.data[lx.pos] != '\r' {
				lx.pos++
			}
		case c == '(':
			lx.pos++
			return token{obj: types.StringLiteral(lx.literal())}, true
		case c == '<' && lx.peek(1) == '<':
			lx.skipDict()
		case c == '<':
			lx.pos++
			return token{obj: types.HexLiteral(lx.hex())}, true
		case c == '[':
			lx.pos++
			return token{obj: lx.array()}, true
		case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
			lx.pos++
		case c == '/':
			lx.pos++
			return token{obj: types.Name(lx.word())}, true
		default:
			w := lx.word()
			if w == "" {
				lx.pos++
				continue
			}
			if n, err := strconv.ParseFloat(w, 64); err == nil {
				if strings.ContainsAny(w, ".eE") {
					return token{obj: types.Float(n)}, true
				}
				return token{obj: types.Integer(int(n))}, true
			}
			if w == "BI" {
				lx.skipInlineImage()
				continue
			}
			return token{op: w}, true
		}
	}
	return token{}, false
}

func (lx *lexer) peek(off int) byte {
	if lx.pos+off < len(lx.data) {
		return lx.data[lx.pos+off]
	}
	return 0
}

func (lx *lexer) word() string {
	start := lx.pos
	for lx.pos < len(lx.data) && !isSpace(lx.data[lx.pos]) && !isDelim(lx.data[lx.pos]) {
		lx.pos++
	}
	return string(lx.data[start:lx.pos])
}

// literal reads a (string) body after the opening parenthesis.
func (lx *lexer) literal() string {
	var sb strings.Builder
	depth := 1
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		switch c {
		case '\\':
			if lx.pos >= len(lx.data) {
				return sb.String()
			}
			e := lx.data[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '\r':
				if lx.peek(0) == '\n' {
					lx.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && lx.peek(0) >= '0' && lx.peek(0) <= '7'; i++ {
						v = v*8 + int(lx.data[lx.pos]-'0')
						lx.pos++
					}
					sb.WriteByte(byte(v))
				} else {
					sb.WriteByte(e)
				}
			}
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return sb.String()
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// hex reads a <hex> body after the opening bracket.
func (lx *lexer) hex() string {
	var digits []byte
	for lx.pos < len(lx.data) && lx.data[lx.pos] != '>' {
		if c := lx.data[lx.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		lx.pos++
	}
	lx.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return string(out)
}

func (lx *lexer) array() types.Array {
	var arr types.Array
	for {
		for lx.pos < len(lx.data) && isSpace(lx.data[lx.pos]) {
			lx.pos++
		}
		if lx.pos >= len(lx.data) {
			return arr
		}
		if lx.data[lx.pos] == ']' {
			lx.pos++
			return arr
		}
		tok, ok := lx.next()
		if !ok {
			return arr
		}
		if tok.op == "" {
			arr = append(arr, tok.obj)
		}
	}
}

func (lx *lexer) skipDict() {
	depth := 0
	for lx.pos+1 < len(lx.data) {
		switch {
		case lx.data[lx.pos] == '<' && lx.data[lx.pos+1] == '<':
			depth++
			lx.pos += 2
		case lx.data[lx.pos] == '>' && lx.data[lx.pos+1] == '>':
			depth--
			lx.pos += 2
			if depth == 0 {
				return
			}
		default:
			lx.pos++
		}
	}
	lx.pos = len(lx.data)
}

func (lx *lexer) skipInlineImage() {
	i := bytes.Index(lx.data[lx.pos:], []byte("EI"))
	if i < 0 {
		lx.pos = len(lx.data)
		return
	}
	lx.pos += i + 2
}
