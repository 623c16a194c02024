package categories

// DefaultMapping returns the built-in extension mapping materialized into
// categories.json on first use. Extension lists are stored lower-case and
// without a leading dot.
func DefaultMapping() Mapping {
	return Mapping{
		"Video":      {"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v", "mpg", "mpeg", "3gp"},
		"Music":      {"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a", "aiff", "alac"},
		"Code":       {"py", "js", "html", "css", "java", "c", "cpp", "h", "hpp", "cs", "php", "rb", "go", "swift", "kt", "json", "xml", "yml", "yaml", "sh", "bat", "ps1", "md"},
		"Image":      {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif", "webp", "svg", "ico", "raw", "heif", "heic"},
		"Document":   {"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "rtf", "odt", "ods", "odp", "csv", "epub", "mobi"},
		"Archive":    {"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "iso"},
		"Executable": {"exe", "msi", "dmg", "app", "deb", "rpm", "apk"},
		"Other":      {},
	}
}
