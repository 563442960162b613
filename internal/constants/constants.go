package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "xcprof"

	// ConfigFileName is the default config file name
	ConfigFileName = "xcprof.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "XCPROF"

	// DefaultLogLevel is used when no level is configured
	DefaultLogLevel = "warn"
)

// ConfigFileNames lists config file names in order of preference
var ConfigFileNames = []string{
	"xcprof.yaml",
	"xcprof.yml",
	".xcprof.yaml",
	".xcprof.yml",
	".xcprof.toml",
	"xcprof.json",
	".xcprof.json",
}

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Comment sink constants
const (
	SinkConsole = "console"
	SinkActions = "actions"
	SinkGitHub  = "github"
)

// Target file extensions
const (
	// ActivityLogExtension marks a target as an explicit Xcode build log
	ActivityLogExtension = ".xcactivitylog"
)

// ReportFileExtensions mark a target as a saved profiler report
var ReportFileExtensions = []string{".json", ".yaml", ".yml"}
