package matching

// Product-tuned heuristics. Changing any of these values changes rankings.

type Weights struct {
	SkillSimilarity float64
	SkillBoost      float64
	Experience      float64
	Location        float64
	Program         float64
}

var DefaultWeights = Weights{
	SkillSimilarity: 0.35,
	SkillBoost:      0.25,
	Experience:      0.15,
	Location:        0.10,
	Program:         0.15,
}

func (w Weights) IsZero() bool {
	return w == Weights{}
}

// SkillWeights scales exact and partial skill matches; unlisted skills weigh 1.0.
var SkillWeights = map[string]float64{
	"python":           1.2,
	"react":            1.2,
	"javascript":       1.1,
	"typescript":       1.3,
	"node.js":          1.2,
	"django":           1.3,
	"fastapi":          1.3,
	"postgresql":       1.1,
	"mongodb":          1.1,
	"docker":           1.2,
	"kubernetes":       1.3,
	"aws":              1.3,
	"machine learning": 1.4,
	"data science":     1.4,
	"tensorflow":       1.4,
	"pandas":           1.2,
	"numpy":            1.1,
	"react native":     1.3,
	"flutter":          1.3,
	"swift":            1.3,
	"kotlin":           1.3,
	"java":             1.2,
	"c++":              1.2,
	"git":              1.0,
	"agile":            1.0,
	"scrum":            1.0,
}

// LocationWeights is the per-city desirability used when locations differ.
var LocationWeights = map[string]float64{
	"istanbul": 1.2,
	"ankara":   1.1,
	"izmir":    1.1,
	"bursa":    1.0,
	"antalya":  1.0,
	"remote":   1.1,
}

// ProgramKeywords maps a bootcamp track to the words that signal a relevant job.
var ProgramKeywords = map[string][]string{
	"frontend development":   {"frontend", "react", "vue", "angular", "javascript", "typescript", "css", "html"},
	"backend development":    {"backend", "python", "django", "fastapi", "node.js", "express", "java", "spring"},
	"data science":           {"data", "machine learning", "python", "pandas", "numpy", "tensorflow", "scikit-learn"},
	"mobile development":     {"mobile", "react native", "flutter", "swift", "kotlin", "ios", "android"},
	"full stack development": {"full stack", "frontend", "backend", "react", "node.js", "python"},
}

const (
	DefaultProgram       = "Data Science"
	neutralProgramScore  = 0.5
	partialMatchFactor   = 0.7
	experienceGapPenalty = 0.2
	experienceFloor      = 0.3
	maxTextFeatures      = 1000
)

var englishStopWords = toSet([]string{
	"a", "about", "above", "across", "after", "afterwards", "again", "against", "all", "almost",
	"alone", "along", "already", "also", "although", "always", "am", "among", "amongst", "amoungst",
	"amount", "an", "and", "another", "any", "anyhow", "anyone", "anything", "anyway", "anywhere",
	"are", "around", "as", "at", "back", "be", "became", "because", "become", "becomes",
	"becoming", "been", "before", "beforehand", "behind", "being", "below", "beside", "besides", "between",
	"beyond", "bill", "both", "bottom", "but", "by", "call", "can", "cannot", "cant",
	"co", "con", "could", "couldnt", "cry", "de", "describe", "detail", "do", "done",
	"down", "due", "during", "each", "eg", "eight", "either", "eleven", "else", "elsewhere",
	"empty", "enough", "etc", "even", "ever", "every", "everyone", "everything", "everywhere", "except",
	"few", "fifteen", "fifty", "fill", "find", "fire", "first", "five", "for", "former",
	"formerly", "forty", "found", "four", "from", "front", "full", "further", "get", "give",
	"go", "had", "has", "hasnt", "have", "he", "hence", "her", "here", "hereafter",
	"hereby", "herein", "hereupon", "hers", "herself", "him", "himself", "his", "how", "however",
	"hundred", "i", "ie", "if", "in", "inc", "indeed", "interest", "into", "is",
	"it", "its", "itself", "keep", "last", "latter", "latterly", "least", "less", "ltd",
	"made", "many", "may", "me", "meanwhile", "might", "mill", "mine", "more", "moreover",
	"most", "mostly", "move", "much", "must", "my", "myself", "name", "namely", "neither",
	"never", "nevertheless", "next", "nine", "no", "nobody", "none", "noone", "nor", "not",
	"nothing", "now", "nowhere", "of", "off", "often", "on", "once", "one", "only",
	"onto", "or", "other", "others", "otherwise", "our", "ours", "ourselves", "out", "over",
	"own", "part", "per", "perhaps", "please", "put", "rather", "re", "same", "see",
	"seem", "seemed", "seeming", "seems", "serious", "several", "she", "should", "show", "side",
	"since", "sincere", "six", "sixty", "so", "some", "somehow", "someone", "something", "sometime",
	"sometimes", "somewhere", "still", "such", "system", "take", "ten", "than", "that", "the",
	"their", "them", "themselves", "then", "thence", "there", "thereafter", "thereby", "therefore", "therein",
	"thereupon", "these", "they", "thick", "thin", "third", "this", "those", "though", "three",
	"through", "throughout", "thru", "thus", "to", "together", "too", "top", "toward", "towards",
	"twelve", "twenty", "two", "un", "under", "until", "up", "upon", "us", "very",
	"via", "was", "we", "well", "were", "what", "whatever", "when", "whence", "whenever",
	"where", "whereafter", "whereas", "whereby", "wherein", "whereupon", "wherever", "whether", "which", "while",
	"whither", "who", "whoever", "whole", "whom", "whose", "why", "will", "with", "within",
	"without", "would", "yet", "you", "your", "yours", "yourself", "yourselves",
})

func toSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
