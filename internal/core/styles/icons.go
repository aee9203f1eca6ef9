package styles

// Status glyphs shown in list output.
var (
	IconUnfinished = "○"
	IconFinished   = "●"
)
