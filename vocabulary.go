package provdir

// Vocabulary is the set of words and phrases treated as site navigation
// chrome rather than substantive content. It is injected into the item
// filter so there is exactly one definition of the noise list.
type Vocabulary []string

// DefaultVocabulary returns the navigation-noise vocabulary observed
// across directory sites. Matching is case-insensitive; entries longer
// than four characters also match as substrings.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"home", "about", "contact", "menu", "skip to content",
		"services", "about us", "find", "resources", "guides",
		"participate", "search", "login", "register", "sign in",
		"education institutions", "find education", "copyright",
		"privacy", "terms", "sitemap", "faq", "help",
		"click", "toggle", "close", "open", "show", "hide",
		"programs offered", "next", "previous", "submit",
		"apply now", "learn more", "read more", "view all",
		"download", "upload", "back", "forward", "continue", "proceed",
		"cancel", "ok", "yes", "no", "reset", "clear",
		"navigate", "expand", "collapse", "dropdown",
	}
}
