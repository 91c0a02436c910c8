package press

import "github.com/goliatone/go-press/internal/runtimeconfig"

var (
	ErrMarkdownFeatureRequired           = runtimeconfig.ErrMarkdownFeatureRequired
	ErrMarkdownContentDirRequired        = runtimeconfig.ErrMarkdownContentDirRequired
	ErrGeneratorOutputDirRequired        = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorBaseURLInvalid           = runtimeconfig.ErrGeneratorBaseURLInvalid
	ErrSchedulingRequiresRevisions       = runtimeconfig.ErrSchedulingRequiresRevisions
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrStorageDriverUnknown              = runtimeconfig.ErrStorageDriverUnknown
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
	ErrLintSummaryLimitInvalid           = runtimeconfig.ErrLintSummaryLimitInvalid
)

type (
	Config               = runtimeconfig.Config
	SiteConfig           = runtimeconfig.SiteConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	Features             = runtimeconfig.Features
	CommandsConfig       = runtimeconfig.CommandsConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	LintConfig           = runtimeconfig.LintConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns opinionated defaults for an embedded press module.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file and merges it over the defaults.
// A missing file is not an error; callers get the defaults back untouched.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
