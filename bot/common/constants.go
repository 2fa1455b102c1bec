package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorError   = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorGold    = 0xF1C40F
)

// Command and component identifiers
const (
	CommandName          = "lotto"
	ComponentPrefix      = "lotto_"
	StopDrawComponentID  = "lotto_stopdraw"
	StopSimComponentID   = "lotto_stopsim"
	ChartAttachmentName  = "simulation.png"
	DefaultHistoryCount  = 10
	MaxHistoryCount      = 25
	MaxTicketsPerListing = 20
)

// MaxFieldLength is the longest value Discord accepts in an embed field
const MaxFieldLength = 1024
