package config

import "strings"

const (
	defaultWorkDir                  = "~/.local/share/cinepress/work"
	defaultMinFreeGiB               = 2
	defaultEncodingThreads          = 4
	defaultFramesInMemoryMultiplier = 3.0
	defaultQueueSizeMultiplier      = 16
	defaultLogLevel                 = "info"
	defaultLogFormat                = "console"
	defaultIssuer                   = ""
	defaultCreator                  = ""
)

// DefaultCoverSheet is the cover-sheet template used when the configuration
// does not supply one. Tokens are substituted at finalize time.
const DefaultCoverSheet = `$CPL_NAME

Type: $TYPE
Format: $CONTAINER
Audio: $AUDIO
Audio Language: $AUDIO_LANGUAGE
Subtitle Language: $SUBTITLE_LANGUAGE
Length: $LENGTH
Size: $SIZE
`

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		WorkDir:    defaultWorkDir,
		MinFreeGiB: defaultMinFreeGiB,
		CoverSheet: DefaultCoverSheet,
		Encoding: Encoding{
			Threads:                  defaultEncodingThreads,
			FramesInMemoryMultiplier: defaultFramesInMemoryMultiplier,
			QueueSizeMultiplier:      defaultQueueSizeMultiplier,
		},
		Signing: Signing{
			Issuer:  defaultIssuer,
			Creator: defaultCreator,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

func (c *Config) normalize() {
	c.WorkDir = ExpandPath(strings.TrimSpace(c.WorkDir))
	if c.WorkDir == "" {
		c.WorkDir = ExpandPath(defaultWorkDir)
	}
	c.Signing.CertificatePath = ExpandPath(strings.TrimSpace(c.Signing.CertificatePath))
	c.Signing.KeyPath = ExpandPath(strings.TrimSpace(c.Signing.KeyPath))
	if strings.TrimSpace(c.CoverSheet) == "" {
		c.CoverSheet = DefaultCoverSheet
	}
	if c.Encoding.Threads <= 0 {
		c.Encoding.Threads = defaultEncodingThreads
	}
	if c.Encoding.FramesInMemoryMultiplier <= 0 {
		c.Encoding.FramesInMemoryMultiplier = defaultFramesInMemoryMultiplier
	}
	if c.Encoding.QueueSizeMultiplier <= 0 {
		c.Encoding.QueueSizeMultiplier = defaultQueueSizeMultiplier
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
}
