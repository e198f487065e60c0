package config

const (
	defaultConfigPath       = "~/.config/autosub/config.toml"
	defaultStateDir         = "~/.local/share/autosub"
	defaultLogDir           = "~/.local/share/autosub/logs"
	defaultOutputDir        = "."
	defaultModel            = "small"
	defaultLanguage         = "auto"
	defaultTask             = "transcribe"
	defaultVADMethod        = "silero"
	defaultSubtitleStyle    = "OutlineColour=&H40000000,BorderStyle=3"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultUVXBinary        = "uvx"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultHistoryRetention = 180
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Transcription: Transcription{
			Model:            defaultModel,
			Language:         defaultLanguage,
			Task:             defaultTask,
			VADMethod:        defaultVADMethod,
			SuppressWarnings: true,
		},
		Output: Output{
			Dir:           defaultOutputDir,
			WriteSRT:      true,
			SubtitleStyle: defaultSubtitleStyle,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			UVX:     defaultUVXBinary,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetention,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
