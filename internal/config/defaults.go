package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	typeCmd := "wtype -"

	return Config{
		Hotkeys: HotkeyConfig{Speech: "f9", Save: "f10"},
		Audio: AudioConfig{
			Input:         "default",
			Fallback:      "default",
			MaxDurationMS: 3000,
		},
		Recognizer: RecognizerConfig{
			Backend:   BackendOpenAI,
			Model:     "whisper-1",
			Language:  "en",
			APIKeyEnv: "OPENAI_API_KEY",
			TimeoutMS: 30000,
		},
		Transcript: TranscriptConfig{
			HistorySize:         5,
			SimilarityThreshold: 0.8,
			TrailingSpace:       false,
		},
		Output: OutputConfig{
			TypeCmd: CommandConfig{Raw: typeCmd, Argv: mustParseArgv(typeCmd)},
		},
		Indicator: IndicatorConfig{
			Enable:               true,
			AppName:              "voicetray",
			NotificationDuration: 3,
		},
	}
}
