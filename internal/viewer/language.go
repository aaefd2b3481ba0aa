package viewer

// languageColors are the dots shown next to a repository's primary language.
var languageColors = map[string]string{
	"JavaScript":       "#f1e05a",
	"TypeScript":       "#2b7489",
	"Python":           "#3572A5",
	"Java":             "#b07219",
	"C++":              "#f34b7d",
	"C":                "#555555",
	"HTML":             "#e34c26",
	"CSS":              "#563d7c",
	"JSON":             "#292929",
	"Go":               "#00ADD8",
	"Rust":             "#dea584",
	"PHP":              "#4F5D95",
	"Ruby":             "#701516",
	"SQL":              "#e38c00",
	"Jupyter Notebook": "#DA5B0B",
	"Shell":            "#89e051",
	"Plain Text":       "#8b949e",
}

const defaultLanguageColor = "#8b949e"

// LanguageColor returns the dot colour for a language label.
func LanguageColor(language string) string {
	if c, ok := languageColors[language]; ok {
		return c
	}
	return defaultLanguageColor
}
