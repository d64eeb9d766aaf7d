package report

// ANSI palette indices
const (
	colorRed           = "1"
	colorGreen         = "2"
	colorYellow        = "3"
	colorBlue          = "4"
	colorMagenta       = "5"
	colorCyan          = "6"
	colorWhite         = "7"
	colorGray          = "8"
	colorBrightGreen   = "10"
	colorBrightMagenta = "13"
)

var emotionColors = map[string]string{
	"joy":          colorYellow,
	"anger":        colorRed,
	"sadness":      colorBlue,
	"fear":         colorMagenta,
	"surprise":     colorCyan,
	"disgust":      colorGreen,
	"love":         colorBrightMagenta,
	"thankfulness": colorBrightGreen,
	"noEmotion":    colorGray,
}

var ekmanColors = map[string]string{
	"anger":    colorRed,
	"disgust":  colorGreen,
	"fear":     colorMagenta,
	"joy":      colorYellow,
	"sadness":  colorBlue,
	"surprise": colorCyan,
	"neutral":  colorGray,
}

var traitColors = map[string]string{
	"Introvert":  colorBlue,
	"Extrovert":  colorYellow,
	"Intuitive":  colorMagenta,
	"Sensing":    colorGreen,
	"Thinking":   colorCyan,
	"Feeling":    colorRed,
	"Judging":    colorBlue,
	"Perceiving": colorYellow,
}

// labelColor looks up a label, falling back to white
func labelColor(colors map[string]string, label string) string {
	if c, ok := colors[label]; ok {
		return c
	}
	return colorWhite
}

func sentimentColor(label string) string {
	if label == "positive" {
		return colorGreen
	}
	return colorRed
}

func topicColor(sentiment string) string {
	switch sentiment {
	case "positive":
		return colorGreen
	case "negative":
		return colorRed
	}
	return colorGray
}
