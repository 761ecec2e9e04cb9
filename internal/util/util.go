package util

import "strings"

// MakeTextList joins items into a human-readable list with an Oxford comma:
// "a", "a and b", or "a, b, and c".
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}
	if len(items) == 1 {
		return items[0]
	}
	if len(items) == 2 {
		return items[0] + " and " + items[1]
	}

	cp := make([]string, len(items))
	copy(cp, items)
	cp[len(cp)-1] = "and " + cp[len(cp)-1]
	return strings.Join(cp, ", ")
}

// ArticleFor returns "a" or "an" depending on the leading sound of word, for
// use in generated error messages like "expected an identifier".
func ArticleFor(word string, capitalize bool) string {
	article := "a"
	if len(word) > 0 && isVowelSound(word[0]) {
		article = "an"
	}
	if capitalize {
		article = strings.ToUpper(article[:1]) + article[1:]
	}
	return article
}

func isVowelSound(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	default:
		return false
	}
}
