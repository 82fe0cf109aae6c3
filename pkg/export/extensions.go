package export

// binaryExtensions is the fixed denylist of extensions that are never
// exported. Files matching it are rejected before any content is read.
// Keys are lowercase without the leading dot.
var binaryExtensions = map[string]bool{
	// images
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true,
	"ico": true, "icns": true, "tif": true, "tiff": true, "webp": true,
	"heic": true, "psd": true,
	// audio / video
	"mp3": true, "wav": true, "ogg": true, "flac": true, "aac": true,
	"mp4": true, "avi": true, "mkv": true, "mov": true, "wmv": true,
	"webm": true, "m4a": true, "m4v": true,
	// archives
	"zip": true, "tar": true, "gz": true, "tgz": true, "bz2": true,
	"xz": true, "7z": true, "rar": true, "zst": true,
	// executables and libraries
	"exe": true, "dll": true, "so": true, "dylib": true, "bin": true,
	"class": true, "jar": true, "war": true, "ear": true, "pyc": true,
	"pyo": true, "wasm": true, "o": true, "a": true, "lib": true,
	// documents
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"ppt": true, "pptx": true, "odt": true, "ods": true, "odp": true,
	// fonts
	"ttf": true, "otf": true, "woff": true, "woff2": true, "eot": true,
	// disk and data blobs
	"db": true, "sqlite": true, "sqlite3": true, "mdb": true,
	"iso": true, "img": true, "dmg": true, "msi": true, "deb": true,
	"rpm": true, "apk": true, "ipa": true,
}

// hasBinaryExtension reports whether ext (lowercase, no dot) is denylisted.
func hasBinaryExtension(ext string) bool {
	return binaryExtensions[ext]
}
