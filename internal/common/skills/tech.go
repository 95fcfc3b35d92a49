package skills

// techWhitelist holds the skill names counted as technologies in statistics
var techWhitelist = map[string]struct{}{
	"python": {}, "java": {}, "c": {}, "c++": {}, "c#": {}, "go": {}, "golang": {},
	"php": {}, "javascript": {}, "typescript": {}, "node": {}, "node.js": {},
	"ruby": {}, "sql": {}, "mysql": {}, "postgresql": {}, "postgres": {},
	"redis": {}, "elasticsearch": {}, "excel": {},
	"react": {}, "angular": {}, "laravel": {}, "graphql": {},
	"aws": {}, "azure": {}, "gcp": {}, "docker": {}, "kubernetes": {}, "devops": {},
	"linux": {}, "api": {}, "microservices": {}, "git": {}, "github": {},
	"ai": {}, "ml": {}, "machine learning": {},
}

// IsTech reports whether a normalized skill name is a known technology
func IsTech(skill string) bool {
	_, ok := techWhitelist[skill]
	return ok
}

