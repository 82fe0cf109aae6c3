package export

import (
	"fmt"
	"strconv"
	"strings"
)

// commentStyle is the comment syntax wrapped around a path header line.
type commentStyle struct {
	prefix string
	suffix string
}

var defaultCommentStyle = commentStyle{prefix: "// "}

// commentStyles maps file extensions to their header comment syntax.
// Extensions not listed use the C-style line comment.
var commentStyles = map[string]commentStyle{
	// hash comments
	"py": {prefix: "# "}, "rb": {prefix: "# "}, "sh": {prefix: "# "},
	"bash": {prefix: "# "}, "zsh": {prefix: "# "}, "fish": {prefix: "# "},
	"pl": {prefix: "# "}, "pm": {prefix: "# "}, "r": {prefix: "# "},
	"yaml": {prefix: "# "}, "yml": {prefix: "# "}, "toml": {prefix: "# "},
	"ini": {prefix: "# "}, "cfg": {prefix: "# "}, "conf": {prefix: "# "},
	"mk": {prefix: "# "}, "makefile": {prefix: "# "},
	"dockerfile": {prefix: "# "}, "tf": {prefix: "# "},
	"gitignore": {prefix: "# "}, "ps1": {prefix: "# "},
	"tcl": {prefix: "# "}, "nim": {prefix: "# "},
	// HTML comments
	"html": {prefix: "<!-- ", suffix: " -->"}, "htm": {prefix: "<!-- ", suffix: " -->"},
	"xml": {prefix: "<!-- ", suffix: " -->"}, "svg": {prefix: "<!-- ", suffix: " -->"},
	"vue": {prefix: "<!-- ", suffix: " -->"}, "md": {prefix: "<!-- ", suffix: " -->"},
	"markdown": {prefix: "<!-- ", suffix: " -->"},
	// double-dash comments
	"sql": {prefix: "-- "}, "lua": {prefix: "-- "}, "hs": {prefix: "-- "},
	"elm": {prefix: "-- "},
	// Lisp family
	"lisp": {prefix: ";; "}, "cl": {prefix: ";; "}, "el": {prefix: ";; "},
	"clj": {prefix: ";; "}, "cljs": {prefix: ";; "}, "cljc": {prefix: ";; "},
	"edn": {prefix: ";; "}, "scm": {prefix: ";; "}, "rkt": {prefix: ";; "},
	// Windows batch
	"bat": {prefix: "REM "}, "cmd": {prefix: "REM "},
	// modern Fortran
	"f90": {prefix: "! "}, "f95": {prefix: "! "}, "f03": {prefix: "! "},
	"f08": {prefix: "! "},
	// CSS block comments
	"css": {prefix: "/* ", suffix: " */"}, "scss": {prefix: "/* ", suffix: " */"},
	"less": {prefix: "/* ", suffix: " */"},
}

// headerStyles are the distinct comment styles, used to recognize an existing
// header line no matter which language wrote it.
var headerStyles = func() []commentStyle {
	seen := map[commentStyle]bool{defaultCommentStyle: true}
	styles := []commentStyle{defaultCommentStyle}
	for _, style := range commentStyles {
		if !seen[style] {
			seen[style] = true
			styles = append(styles, style)
		}
	}
	return styles
}()

func styleFor(ext string) commentStyle {
	if style, ok := commentStyles[ext]; ok {
		return style
	}
	return defaultCommentStyle
}

// pathHeader renders the header comment line identifying relPath, without a
// trailing newline.
func pathHeader(relPath, ext string) string {
	style := styleFor(ext)
	return style.prefix + "filename: " + relPath + style.suffix
}

func firstLine(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return strings.TrimRight(content[:i], "\r")
	}
	return content
}

// hasPathHeader reports whether content already opens with a header line in
// any known style. Re-exporting previously exported content must not stack a
// second header on top of the first, even when the embedded header names a
// different relative path.
func hasPathHeader(content string) bool {
	line := firstLine(content)
	for _, style := range headerStyles {
		if strings.HasPrefix(line, style.prefix+"filename: ") &&
			strings.HasSuffix(line, style.suffix) {
			return true
		}
	}
	return false
}

// stripPathHeader removes a leading header line if one is present and returns
// the content unchanged otherwise.
func stripPathHeader(content string) string {
	if !hasPathHeader(content) {
		return content
	}
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return content[i+1:]
	}
	return ""
}

// numberLines prefixes each line with its 1-based number, right-aligned to
// the width of the total line count. A trailing newline is preserved and
// empty content stays empty.
func numberLines(content string) string {
	if content == "" {
		return ""
	}
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	width := len(strconv.Itoa(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d: %s", width, i+1, line)
	}
	if trailingNewline {
		b.WriteByte('\n')
	}
	return b.String()
}
