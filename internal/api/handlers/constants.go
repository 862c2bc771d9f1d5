package handlers

const (
	// Upload form fields
	formFieldScale       = "scl"
	formFieldKeymap      = "kbm"
	formFieldCentsOffset = "cents_offset"

	// Limits
	maxKeymapSize      = 1024 // Largest keymap GET /keymaps/default will build
	maxIntervalTokens  = 512  // Tokens per interval parse request
	multipartMaxMemory = 1 << 20

	contentTypeCurve = "application/octet-stream"
	contentTypeText  = "text/plain; charset=utf-8"

	defaultScaleName = "scale"
)
