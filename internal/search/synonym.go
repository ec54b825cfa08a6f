package search

var Synonyms = map[string][]string{
	"frontend":       {"front end", "frontend developer", "react developer"},
	"backend":        {"back end", "backend developer", "server side"},
	"fullstack":      {"full stack", "full-stack"},
	"data scientist": {"data science", "machine learning"},
	"data analyst":   {"data analysis", "business intelligence"},
	"devops":         {"site reliability", "cloud engineer", "platform engineer"},
	"ml engineer":    {"machine learning engineer", "ai engineer"},
	"designer":       {"ui designer", "ux designer", "product designer"},
	"mobile":         {"android", "ios", "flutter"},
}

func GetSynonyms(query string) []string {
	if query == "" {
		return []string{}
	}
	if v, ok := Synonyms[query]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}
