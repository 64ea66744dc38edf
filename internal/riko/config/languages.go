package config

// Language is one supported interface language: a two-letter code, a display
// name used in reply-language instructions, and the BCP-47 tag handed to the
// speech recognizer.
type Language struct {
	Code      string
	Name      string
	SpeechTag string
}

// languages is the fixed, read-only lookup table of supported languages.
var languages = []Language{
	{"en", "English", "en-US"},
	{"es", "Spanish", "es-ES"},
	{"fr", "French", "fr-FR"},
	{"de", "German", "de-DE"},
	{"it", "Italian", "it-IT"},
	{"pt", "Portuguese", "pt-BR"},
	{"ja", "Japanese", "ja-JP"},
	{"zh", "Chinese", "zh-CN"},
	{"ko", "Korean", "ko-KR"},
	{"ar", "Arabic", "ar-SA"},
	{"ru", "Russian", "ru-RU"},
	{"hi", "Hindi", "hi-IN"},
}

// Languages returns the supported languages in presentation order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LanguageName returns the display name for a language code, defaulting to
// English for unknown codes.
func LanguageName(code string) string {
	for _, l := range languages {
		if l.Code == code {
			return l.Name
		}
	}
	return "English"
}

// SpeechTag returns the recognizer language tag for a language code,
// defaulting to en-US for unknown codes.
func SpeechTag(code string) string {
	for _, l := range languages {
		if l.Code == code {
			return l.SpeechTag
		}
	}
	return "en-US"
}

// ReplyInstruction returns the prefix prepended to outgoing user turns so
// the assistant answers in the configured language. English needs no
// instruction and yields the empty string.
func ReplyInstruction(code string) string {
	if code == "" || code == "en" {
		return ""
	}
	return "[Respond in " + LanguageName(code) + "] "
}
