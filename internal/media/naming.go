package media

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Naming heuristics shared by the movie and TV analyzers. Everything here is a
// pure function of its input; there is no tokenizer, only substring checks and
// a handful of anchored patterns.
var (
	// digitRunRe matches a maximal run of decimal digits.
	digitRunRe = regexp.MustCompile(`[0-9]+`)

	// episodeCodeRe matches the S01E02 form anywhere in a token.
	episodeCodeRe = regexp.MustCompile(`(?i)S([0-9]+)E([0-9]+)`)

	// knownSuffixRe matches a trailing media, subtitle or archive extension
	// separated either by a dot or, for normalized names, by a space.
	knownSuffixRe = regexp.MustCompile(`(?i)[ .](` + videoExts + `|` + subtitleExts + `|` + archiveExts + `)$`)

	// normalizedLangRe is langPattern for names whose dots became spaces.
	normalizedLangRe = regexp.MustCompile(`[ .][a-zA-Z]{2,3}(?:[-_ ][a-zA-Z]{2,4})?$`)

	normalizer = strings.NewReplacer("_", " ", ".", " ")
)

// DefaultSeasonAliases are the season indicator fragments used when no aliases
// are configured.
func DefaultSeasonAliases() []string {
	return []string{"season", "s0", "시즌", "saison", "staffel", "temporada", "stagione"}
}

// SeasonKeywords detects season indicator fragments in folder names.
//
// The zero value uses DefaultSeasonAliases.
type SeasonKeywords struct {
	aliases []string
}

// NewSeasonKeywords builds a matcher for aliases. Blank aliases are dropped;
// when nothing remains the defaults are used.
func NewSeasonKeywords(aliases ...string) SeasonKeywords {
	folded := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		folded = append(folded, fold(alias))
	}
	if len(folded) == 0 {
		return SeasonKeywords{}
	}
	return SeasonKeywords{aliases: folded}
}

// Aliases returns the case folded aliases in use.
func (k SeasonKeywords) Aliases() []string {
	if len(k.aliases) == 0 {
		return NewSeasonKeywords(DefaultSeasonAliases()...).aliases
	}
	out := make([]string, len(k.aliases))
	copy(out, k.aliases)
	return out
}

// Contains reports whether text contains any season alias, ignoring case.
func (k SeasonKeywords) Contains(text string) bool {
	folded := fold(text)
	for _, alias := range k.Aliases() {
		if strings.Contains(folded, alias) {
			return true
		}
	}
	return false
}

// ExtractSeasonIndex returns the first number in name when name carries a
// season keyword. A keyword without digits reports false.
func (k SeasonKeywords) ExtractSeasonIndex(name string) (int, bool) {
	if !k.Contains(name) {
		return 0, false
	}
	return ExtractNumber(name)
}

// ExtractNumber returns the first maximal run of decimal digits in text.
func ExtractNumber(text string) (int, bool) {
	run := digitRunRe.FindString(text)
	if run == "" {
		return 0, false
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractEpisodeCode returns the episode number of the first S<d>E<d> form
// found in text.
func ExtractEpisodeCode(text string) (int, bool) {
	m := episodeCodeRe.FindStringSubmatch(text)
	if len(m) < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Normalize replaces underscores and periods with single spaces. Repeated
// separators are kept, so callers splitting on " " will see empty tokens.
func Normalize(text string) string {
	return normalizer.Replace(text)
}

// TruncSuffix strips one trailing known extension from name. The separator may
// be a dot or a space, so both "Show.S01E01.mkv" and its normalized form
// "Show S01E01 mkv" lose the "mkv". A language tag in front of a subtitle
// extension is stripped with it.
func TruncSuffix(name string) string {
	loc := knownSuffixRe.FindStringSubmatchIndex(name)
	if loc == nil || loc[0] == 0 {
		return name
	}
	trimmed := name[:loc[0]]
	ext := name[loc[2]:loc[3]]
	if subtitleRe.MatchString("." + ext) {
		if lang := normalizedLangRe.FindStringIndex(trimmed); lang != nil && lang[0] > 0 {
			trimmed = trimmed[:lang[0]]
		}
	}
	return trimmed
}

func fold(s string) string {
	return cases.Fold().String(s)
}
