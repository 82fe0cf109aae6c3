package export

import (
	"fmt"
	"path"
	"strings"
)

// render serializes the final document: optional summary and directory tree
// blocks, then the file bodies in the configured format.
func (ex *Exporter) render(result *Result) string {
	var blocks []string
	if ex.settings.IncludeRepositorySummary {
		if s := ex.summary.render(result, ex.settings.Format); s != "" {
			blocks = append(blocks, s)
		}
	}
	if ex.settings.IncludeDirectoryStructure {
		if t := ex.renderTree(result.IncludedPaths()); t != "" {
			blocks = append(blocks, t)
		}
	}
	blocks = append(blocks, renderBody(result.Files, ex.settings.Format))
	return strings.Join(blocks, "\n")
}

func (ex *Exporter) renderTree(paths []string) string {
	tree := renderPathTree(paths, ex.settings.IncludeFilesInStructure)
	if tree == "" {
		return ""
	}
	switch ex.settings.Format {
	case FormatMarkdown:
		return "## Directory structure\n\n```\n" + tree + "```\n"
	case FormatXML:
		return "<!-- Directory structure:\n" + escapeXMLComment(tree) + "-->"
	default:
		return "Directory structure:\n" + tree
	}
}

func renderBody(files []FileContent, format OutputFormat) string {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(files)
	case FormatXML:
		return renderXML(files)
	default:
		return renderPlain(files)
	}
}

// renderPlain joins the rendered contents with single newlines; the header
// lines inside the content carry the file identity.
func renderPlain(files []FileContent) string {
	parts := make([]string, len(files))
	for i, f := range files {
		parts[i] = f.Content
	}
	return strings.Join(parts, "\n")
}

// renderMarkdown emits one heading plus fenced code block per file. A header
// line inside the content is stripped first since the heading already names
// the file.
func renderMarkdown(files []FileContent) string {
	var b strings.Builder
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### %s\n\n", f.Path)
		fmt.Fprintf(&b, "```%s\n", languageHint(extensionOf(f.Path)))
		content := stripPathHeader(f.Content)
		b.WriteString(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n")
	}
	return b.String()
}

// renderXML wraps every file in a <file> element with the path as an escaped
// attribute and the content inside CDATA.
func renderXML(files []FileContent) string {
	var b strings.Builder
	b.WriteString("<files>\n")
	for _, f := range files {
		fmt.Fprintf(&b, "  <file path=\"%s\">\n", escapeXMLAttr(f.Path))
		b.WriteString("    <content><![CDATA[")
		b.WriteString(escapeCDATA(stripPathHeader(f.Content)))
		b.WriteString("]]></content>\n")
		b.WriteString("  </file>\n")
	}
	b.WriteString("</files>\n")
	return b.String()
}

var xmlAttrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXMLAttr escapes the five XML special characters for use inside a
// double-quoted attribute value.
func escapeXMLAttr(s string) string {
	return xmlAttrEscaper.Replace(s)
}

// escapeCDATA splits any literal "]]>" across two CDATA sections so content
// can never terminate its section early.
func escapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

// escapeXMLComment breaks up hyphen pairs so the text can sit inside an XML
// comment, which must not contain "--". Path names flow into the tree and
// summary comment blocks, so they pass through here first.
func escapeXMLComment(s string) string {
	if !strings.Contains(s, "--") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	prev := byte(0)
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && prev == '-' {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
		prev = s[i]
	}
	return b.String()
}

func extensionOf(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}
