package config

const (
	// MaxMarkupsPerSet is the maximum number of markup items in one saved set.
	// A set is replaced wholesale on every save, so this bounds both request
	// size and the per-version snapshot size.
	MaxMarkupsPerSet = 1000

	// MaxInkPoints is the maximum number of points in a single ink stroke.
	MaxInkPoints = 2000

	// MaxMarkupTextLength is the maximum length for text box and comment
	// content. Longer text is rejected at the boundary; the compositor
	// additionally truncates embedded free-text content to 500 characters.
	MaxMarkupTextLength = 2000

	// MinStrokeWidth and MaxStrokeWidth bound ink stroke widths in points.
	MinStrokeWidth = 0.5
	MaxStrokeWidth = 20

	// MinFontSize and MaxFontSize bound free-text font sizes in points.
	MinFontSize = 6
	MaxFontSize = 72

	// MaxTitleLength is the maximum length for project/area/resource/task
	// titles. Kept generous; titles are display-only.
	MaxTitleLength = 500

	// MaxResourceURLLength is the maximum length for resource URLs.
	MaxResourceURLLength = 2000

	// MaxUploadBytes is the maximum accepted PDF upload size.
	MaxUploadBytes = 50 << 20
)
