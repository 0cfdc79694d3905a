package types

// ExtractionBackend identifies the PDF table extractor.
type ExtractionBackend string

const (
	BackendTabula  ExtractionBackend = "tabula"
	BackendCamelot ExtractionBackend = "camelot"
)

// OutputFormat selects how reconstructed records are written.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatJSON   OutputFormat = "json"
	FormatYAML   OutputFormat = "yaml"
	FormatSQLite OutputFormat = "sqlite"
)

// Extension returns the file extension, with leading dot, for the format.
func (f OutputFormat) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatSQLite:
		return ".db"
	default:
		return ".csv"
	}
}

// DefaultMarker is the text that identifies an employment-history table in
// the first row of a page's table.
const DefaultMarker = "SITUACIÓN/ES"

// DefaultHeaderRows is the size of the header block above the data rows of
// an employment-history table.
const DefaultHeaderRows = 6

// DefaultCamelotImage is the container image used by the camelot backend.
const DefaultCamelotImage = "vida-laboral-camelot:latest"

// ConversionConfig holds settings for a single conversion run.
type ConversionConfig struct {
	// Backend selects the table extractor: tabula or camelot.
	Backend ExtractionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Format selects the output format (default csv).
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Output overrides the derived output path. Only valid for one input.
	Output string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`

	// Marker must appear in the first row of a table for it to be kept.
	Marker string `json:"marker" yaml:"marker" mapstructure:"marker"`

	// SkipPages is the number of leading pages never searched for tables
	// (default 1, the cover page).
	SkipPages int `json:"skip_pages" yaml:"skip_pages" mapstructure:"skip_pages"`

	// HeaderRows is the number of rows discarded from the top of each kept table.
	HeaderRows int `json:"header_rows" yaml:"header_rows" mapstructure:"header_rows"`

	// Join separates text merged from a continuation fragment (default " ").
	Join string `json:"join" yaml:"join" mapstructure:"join"`

	// Delimiter is the CSV field separator (default ',').
	Delimiter string `json:"delimiter" yaml:"delimiter" mapstructure:"delimiter"`

	// Strict rejects tables whose first data row is a continuation fragment
	// instead of reporting and dropping it.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// CamelotImage is the container image for the camelot backend.
	CamelotImage string `json:"camelot_image" yaml:"camelot_image" mapstructure:"camelot_image"`
}

// DefaultConversionConfig returns the settings that reproduce the report
// layout of the Seguridad Social "informe de vida laboral".
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		Backend:      BackendTabula,
		Format:       FormatCSV,
		Marker:       DefaultMarker,
		SkipPages:    1,
		HeaderRows:   DefaultHeaderRows,
		Join:         " ",
		Delimiter:    ",",
		CamelotImage: DefaultCamelotImage,
	}
}

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or pretty.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}
