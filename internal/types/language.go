package types

// Language is a short locale code from the closed set supported by the guide.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageMarathi Language = "mr"
	LanguageBengali Language = "bn"
	LanguageTamil   Language = "ta"
	LanguageTelugu  Language = "te"
)

type LanguageInfo struct {
	Code        Language `json:"code"`
	Label       string   `json:"label"`
	NativeLabel string   `json:"native_label"`
}
