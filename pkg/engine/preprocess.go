package engine

import "strings"

// preprocessSource rewrites ride script source into something zygomys reads:
//
//   - ; and ;; line comments become // comments
//   - :name keywords become the "__kw_name" string literals parseArgs
//     recognizes, so keywords never collide with user globals
//   - kebab-case identifiers become snake_case, since zygomys reads a
//     hyphen as subtraction
//
// Double-quoted and backtick string literals pass through untouched.
func preprocessSource(source string) string {
	rw := &rewriter{src: source}
	rw.out.Grow(len(source) + len(source)/4)
	for rw.pos < len(rw.src) {
		c := rw.src[rw.pos]
		switch {
		case c == '"':
			rw.literal('"', true)
		case c == '`':
			rw.literal('`', false)
		case c == ';':
			rw.comment()
		case c == ':' && isLetter(rw.at(1)):
			rw.keyword()
		case c == '-' && isIdentChar(rw.at(-1)) && isLetter(rw.at(1)):
			rw.out.WriteByte('_')
			rw.pos++
		default:
			rw.out.WriteByte(c)
			rw.pos++
		}
	}
	return rw.out.String()
}

type rewriter struct {
	src string
	pos int
	out strings.Builder
}

// at returns the byte at offset off from the cursor, or 0 outside src.
func (rw *rewriter) at(off int) byte {
	i := rw.pos + off
	if i < 0 || i >= len(rw.src) {
		return 0
	}
	return rw.src[i]
}

// literal copies a quoted string including both quotes. An unterminated
// literal runs to the end of the source.
func (rw *rewriter) literal(quote byte, escapes bool) {
	end := rw.pos + 1
	for end < len(rw.src) && rw.src[end] != quote {
		if escapes && rw.src[end] == '\\' && end+1 < len(rw.src) {
			end++
		}
		end++
	}
	if end < len(rw.src) {
		end++
	}
	rw.out.WriteString(rw.src[rw.pos:end])
	rw.pos = end
}

func (rw *rewriter) comment() {
	for rw.at(0) == ';' {
		rw.pos++
	}
	end := strings.IndexByte(rw.src[rw.pos:], '\n')
	if end < 0 {
		end = len(rw.src) - rw.pos
	}
	rw.out.WriteString("//")
	rw.out.WriteString(rw.src[rw.pos : rw.pos+end])
	rw.pos += end
}

func (rw *rewriter) keyword() {
	start := rw.pos + 1
	end := start
	for end < len(rw.src) && isKWChar(rw.src[end]) {
		end++
	}
	rw.out.WriteByte('"')
	rw.out.WriteString(kwPrefix)
	rw.out.WriteString(rw.src[start:end])
	rw.out.WriteByte('"')
	rw.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// isKWChar also accepts hyphens, so :cabin-size keeps its name.
func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}
