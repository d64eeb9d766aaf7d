package symanto

import "fmt"

// Kind identifies one classifier endpoint
type Kind string

const (
	KindSentiment         Kind = "sentiment"
	KindEmotion           Kind = "emotion"
	KindEkmanEmotion      Kind = "ekman-emotion"
	KindLanguageDetection Kind = "language-detection"
	KindPersonality       Kind = "personality"
	KindCommunication     Kind = "communication"
	KindTopicSentiment    Kind = "topic-sentiment"
)

// Kinds lists every endpoint in a stable order
var Kinds = []Kind{
	KindSentiment,
	KindEmotion,
	KindEkmanEmotion,
	KindLanguageDetection,
	KindPersonality,
	KindCommunication,
	KindTopicSentiment,
}

// Path returns the endpoint path relative to the base URL
func (k Kind) Path() string {
	return "/" + string(k)
}

// UsesLanguage reports whether the request carries a language field
func (k Kind) UsesLanguage() bool {
	return k != KindLanguageDetection
}

// ParseKind validates a kind name
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown analysis kind: %s", name)
}
