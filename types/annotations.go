package types

const (
	// MetaDpiPath is the build metadata key holding the density bucket path of a produced file.
	MetaDpiPath = "_ResizetizerDpiPath"
	// MetaDpiScale is the build metadata key holding the density scale of a produced file.
	MetaDpiScale = "_ResizetizerDpiScale"
	// MetaSource is the build metadata key holding the originating source image.
	MetaSource = "_ResizetizerSource"
)
