package notify

import (
	"fmt"
	"html"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// ArticleFormatter builds the HTML notification for a news article:
// header, sentiment block, summary, tags and an insights line.
type ArticleFormatter struct {
	keywords []displayKeyword
	whyRules []whyRule
	clipLen  int
}

// NewArticleFormatter creates the article formatter with the built-in
// display-keyword and why-it-matters tables
func NewArticleFormatter() *ArticleFormatter {
	return &ArticleFormatter{
		keywords: displayKeywords(),
		whyRules: whyRules(),
		clipLen:  400,
	}
}

// Format produces the delivery payload for a scored article
func (f *ArticleFormatter) Format(item domain.ContentItem, decision domain.FilterDecision, verdict domain.SentimentVerdict) domain.Payload {
	var lines []string

	header := fmt.Sprintf("<b>📰 %s</b>\n🗞️ %s", esc(item.Title), esc(item.SourceName))
	if !item.PublishedAt.IsZero() {
		header += " — " + item.PublishedAt.Format("2006-01-02 15:04")
	}
	lines = append(lines, header)

	lines = append(lines, f.sentimentBlock(verdict))

	if item.BodyText != "" {
		lines = append(lines, "🧾 "+esc(clip(item.BodyText, f.clipLen)))
	}

	if tags := f.tagLine(item, decision); tags != "" {
		lines = append(lines, tags)
	}

	lines = append(lines, f.insightsBlock(item))

	if item.URL != "" {
		lines = append(lines, fmt.Sprintf(`🔗 <a href="%s">%s</a>`, esc(item.URL), esc(item.URL)))
	}

	// the article link is already in the message, a preview would repeat it
	return domain.Payload{Text: strings.Join(lines, "\n"), DisablePreview: true}
}

// sentimentBlock renders the verdict badge, ensemble score and per-model
// results, models sorted by name for stable output
func (f *ArticleFormatter) sentimentBlock(verdict domain.SentimentVerdict) string {
	lines := []string{fmt.Sprintf("%s <b>%.2f/10</b>", badge(verdict.Label), verdict.Score)}

	names := make([]string, 0, len(verdict.PerModel))
	for name := range verdict.PerModel {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		res := verdict.PerModel[name]
		lines = append(lines, fmt.Sprintf("<code>%s: %s %.2f/10</code>", name, res.Label, res.Score))
	}

	for _, reason := range verdict.AdjustmentsApplied {
		lines = append(lines, fmt.Sprintf("<code>adjusted: %s</code>", esc(reason)))
	}
	return strings.Join(lines, "\n")
}

// tagLine renders matched categories and display keywords as hashtags
func (f *ArticleFormatter) tagLine(item domain.ContentItem, decision domain.FilterDecision) string {
	seen := map[string]bool{}
	var tags []string
	add := func(t string) {
		t = strings.ReplaceAll(t, " ", "")
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, "#"+t)
		}
	}

	for _, c := range decision.MatchedCategories {
		add(capitalize(c))
	}
	for _, kw := range pickKeywords(item.Text(), f.keywords, 6) {
		add(kw)
	}

	return strings.Join(tags, " ")
}

// insightsBlock renders the host, read time, word count and the
// why-it-matters heuristic
func (f *ArticleFormatter) insightsBlock(item domain.ContentItem) string {
	text := item.Text()
	words := len(strings.Fields(text))
	readMins := int(math.Max(1, math.Ceil(float64(words)/220)))

	parts := []string{fmt.Sprintf("📊 <i>%s</i> • ~%d min • %d words", esc(hostOf(item.URL)), readMins, words)}
	if why := whyItMatters(text, f.whyRules); why != "" {
		parts = append(parts, "🎯 "+esc(why))
	}
	return strings.Join(parts, "\n")
}

// PostFormatter builds the HTML notification for a timeline post, with
// mentions and hashtags linkified and the link preview left enabled so the
// chat shows the post embed.
type PostFormatter struct{}

// NewPostFormatter creates the timeline post formatter
func NewPostFormatter() *PostFormatter { return &PostFormatter{} }

var (
	mentionRe = regexp.MustCompile(`@(\w+)`)
	hashtagRe = regexp.MustCompile(`#(\w+)`)
)

// Format produces the delivery payload for a timeline post
func (f *PostFormatter) Format(item domain.ContentItem, _ domain.FilterDecision, verdict domain.SentimentVerdict) domain.Payload {
	var lines []string

	lines = append(lines, fmt.Sprintf("<b>𝕏 %s</b>", esc(item.SourceName)))
	if !item.PublishedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("<i>%s</i>", item.PublishedAt.UTC().Format("2006-01-02 15:04 UTC")))
	}

	if item.BodyText != "" {
		content := esc(item.BodyText)
		content = mentionRe.ReplaceAllString(content, `<a href="https://x.com/$1">@$1</a>`)
		content = hashtagRe.ReplaceAllString(content, `<a href="https://x.com/hashtag/$1">#$1</a>`)
		lines = append(lines, "", content)
	}

	lines = append(lines, "", fmt.Sprintf("%s <b>%.2f/10</b>", badge(verdict.Label), verdict.Score))

	if eng := item.Engagement; eng != nil {
		lines = append(lines, fmt.Sprintf("💬 %d  🔁 %d  ❤️ %d", eng.Replies, eng.Reposts, eng.Likes))
	}

	if item.URL != "" {
		lines = append(lines, fmt.Sprintf(`🔗 <a href="%s">View on X</a>`, esc(item.URL)))
	}

	return domain.Payload{Text: strings.Join(lines, "\n")}
}

// badge maps a sentiment label to its display badge
func badge(label domain.SentimentLabel) string {
	switch label {
	case domain.SentimentPositive:
		return "🟢 Positive"
	case domain.SentimentNegative:
		return "🔴 Negative"
	default:
		return "⚪ Neutral"
	}
}

// esc escapes HTML special characters, keeping quotes readable
func esc(s string) string {
	return html.EscapeString(s)
}

// clip shortens text to n characters with an ellipsis
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "…"
}

// capitalize uppercases the first byte, category names are plain ascii
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// hostOf extracts a display host from a URL
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

type displayKeyword struct {
	name string
	re   *regexp.Regexp
}

// pickKeywords returns up to limit display names whose pattern matches
func pickKeywords(text string, keywords []displayKeyword, limit int) []string {
	var picked []string
	for _, kw := range keywords {
		if len(picked) >= limit {
			break
		}
		if kw.re.MatchString(text) {
			picked = append(picked, kw.name)
		}
	}
	return picked
}

// displayKeywords is the display-name table for hashtag generation
func displayKeywords() []displayKeyword {
	table := []struct{ name, pattern string }{
		{"CPI", `\bcpi\b`}, {"PCE", `\bpce\b`}, {"inflation", `\binflation\b`},
		{"FOMC", `\bfomc\b`}, {"ratehike", `rate hike`}, {"ratecut", `rate cut`},
		{"Fed", `\bfed\b`}, {"ECB", `\becb\b`}, {"BOJ", `\bboj\b`},
		{"yields", `\byield(s)?\b`}, {"bonds", `\bbond(s)?\b`},
		{"GDP", `\bgdp\b`}, {"PMI", `\bpmi\b`}, {"jobs", `\bjobs?\b`},
		{"QE", `\bqe\b`}, {"QT", `\bqt\b`}, {"recession", `\brecession\b`},
		{"Bitcoin", `\bbitcoin\b|\bbtc\b`}, {"Ethereum", `\beth(ereum)?\b`},
		{"Solana", `\bsol(ana)?\b`}, {"ETF", `\betf\b`}, {"SEC", `\bsec\b`},
		{"stablecoin", `\bstablecoin(s)?\b`}, {"DeFi", `\bdefi\b`},
		{"exchange", `\bexchange(s)?\b|\bcex\b|\bdex\b`},
		{"staking", `\bstaking\b|\brestaking\b`}, {"perpetuals", `\bperpetual(s)?\b`},
		{"token", `\btoken(s)?\b`}, {"NFT", `\bnft(s)?\b`},
		{"Hyperliquid", `\bhyper ?liquid\b|\bhl perps?\b`},
	}
	keywords := make([]displayKeyword, 0, len(table))
	for _, row := range table {
		keywords = append(keywords, displayKeyword{name: row.name, re: regexp.MustCompile("(?i)" + row.pattern)})
	}
	return keywords
}

type whyRule struct {
	phrases []string
	message string
}

// whyItMatters returns the first matching heuristic explanation
func whyItMatters(text string, rules []whyRule) string {
	lower := strings.ToLower(text)
	for _, rule := range rules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.message
			}
		}
	}
	return ""
}

// whyRules is the heuristic explanation table
func whyRules() []whyRule {
	return []whyRule{
		{[]string{"rate hike", "hawkish"}, "Tighter policy; typically risk-off for duration-sensitive assets."},
		{[]string{"rate cut", "dovish"}, "Easier policy; typically supportive for risk assets and liquidity."},
		{[]string{"etf approval", "spot etf", "etf launch"}, "Mainstream access → potential inflows and volatility."},
		{[]string{"liquidity crunch", "funding stress", "bank run"}, "Funding stress; spillovers to broader markets possible."},
		{[]string{"regulation", "sec charges", "lawsuit"}, "Regulatory overhang; headline risk for tokens/exchanges."},
		{[]string{"inflation cools", "disinflation"}, "Cooling prices; supports rate-cut odds and risk appetite."},
		{[]string{"inflation surges", "reacceleration"}, "Hot inflation; pressures yields and weighs on risk assets."},
	}
}
