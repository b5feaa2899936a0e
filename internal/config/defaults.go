package config

const (
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultTranscriberBinary = "whisperx"
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultLogDir            = "~/.local/share/podpress/logs"
	defaultJournalPath       = "~/.local/share/podpress/journal.db"

	defaultTranscriptionModel = "large-v2"

	defaultFillerSensitivity    = 0.7
	defaultMinSilenceDurationMs = 800
	defaultSilenceKeepMs        = 300
	defaultSpeakerTurnPauseMs   = 500
	defaultTangentMinConfidence = 0.60
	defaultTangentAutoThreshold = 0.85
	defaultMaxTangentKeepSec    = 30
	defaultCrossfadeDurationMs  = 50
	defaultEDLFrameRate         = 30

	defaultOutputSampleRate = 48000
	defaultOutputBitDepth   = 24

	defaultTargetLUFS     = -16.0
	defaultTruePeakDBTP   = -1.0
	defaultLoudnormLRA    = 11.0
	defaultMP3BitrateKbps = 192
	defaultMP3SampleRate  = 44100
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpeg:      defaultFFmpegBinary,
			FFprobe:     defaultFFprobeBinary,
			Transcriber: defaultTranscriberBinary,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			Dir:    defaultLogDir,
		},
		Journal: Journal{
			Enabled: true,
			Path:    defaultJournalPath,
		},
		Ingestion: Ingestion{
			TranscriptionModel: defaultTranscriptionModel,
		},
		Editing: Editing{
			FillerSensitivity:    defaultFillerSensitivity,
			MinSilenceDurationMs: defaultMinSilenceDurationMs,
			SilenceKeepMs:        defaultSilenceKeepMs,
			SpeakerTurnPauseMs:   defaultSpeakerTurnPauseMs,
			DetectFalseStarts:    true,
			TangentMinConfidence: defaultTangentMinConfidence,
			TangentAutoThreshold: defaultTangentAutoThreshold,
			MaxTangentKeepSec:    defaultMaxTangentKeepSec,
			CrossfadeDurationMs:  defaultCrossfadeDurationMs,
			EDLFrameRate:         defaultEDLFrameRate,
		},
		Mixing: Mixing{
			OutputSampleRate: defaultOutputSampleRate,
			OutputBitDepth:   defaultOutputBitDepth,
		},
		Mastering: Mastering{
			TargetLUFS:        defaultTargetLUFS,
			TruePeakLimitDBTP: defaultTruePeakDBTP,
			LoudnormLRA:       defaultLoudnormLRA,
			MP3BitrateKbps:    defaultMP3BitrateKbps,
			MP3SampleRate:     defaultMP3SampleRate,
		},
	}
}
