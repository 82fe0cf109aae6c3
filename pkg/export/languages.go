package export

// languageHints maps file extensions to the language tag placed on markdown
// code fences. Anything not listed falls back to "text".
var languageHints = map[string]string{
	"go": "go", "py": "python", "js": "javascript", "mjs": "javascript",
	"ts": "typescript", "jsx": "jsx", "tsx": "tsx",
	"java": "java", "kt": "kotlin", "kts": "kotlin",
	"rb": "ruby", "rs": "rust", "c": "c", "h": "c",
	"cpp": "cpp", "cc": "cpp", "cxx": "cpp", "hpp": "cpp",
	"cs": "csharp", "php": "php", "swift": "swift", "scala": "scala",
	"sh": "bash", "bash": "bash", "zsh": "bash", "fish": "fish",
	"ps1": "powershell", "bat": "batch", "cmd": "batch",
	"sql": "sql", "html": "html", "htm": "html", "xml": "xml",
	"svg": "xml", "css": "css", "scss": "scss", "less": "less",
	"json": "json", "yaml": "yaml", "yml": "yaml", "toml": "toml",
	"ini": "ini", "md": "markdown", "markdown": "markdown",
	"tex": "latex", "r": "r", "lua": "lua", "pl": "perl",
	"hs": "haskell", "clj": "clojure", "groovy": "groovy",
	"gradle": "groovy", "dart": "dart", "vue": "vue",
	"dockerfile": "dockerfile", "makefile": "makefile", "mk": "makefile",
	"proto": "protobuf", "graphql": "graphql", "tf": "hcl",
	"vim": "vim", "ex": "elixir", "exs": "elixir", "erl": "erlang",
	"ml": "ocaml", "fs": "fsharp", "zig": "zig", "nim": "nim",
}

// languageHint returns the fence language for ext, defaulting to "text".
func languageHint(ext string) string {
	if hint, ok := languageHints[ext]; ok {
		return hint
	}
	return "text"
}
