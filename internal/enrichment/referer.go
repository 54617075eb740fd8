package enrichment

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// Traffic sources reported in analytics.
const (
	SourceDirect   = "Direct"
	SourceSearch   = "Search"
	SourceSocial   = "Social"
	SourceAI       = "AI"
	SourceReferral = "Referral"
)

type sourceRule struct {
	source  string
	domains []string
}

// RefererClassifier maps Referer headers to traffic sources.
type RefererClassifier struct {
	rules []sourceRule
}

// NewRefererClassifier creates a classifier with the built-in domain lists.
// AI platforms are matched before search so gemini.google.com is not counted as Google search.
func NewRefererClassifier() *RefererClassifier {
	return &RefererClassifier{
		rules: []sourceRule{
			{source: SourceAI, domains: []string{
				"chatgpt.com",
				"chat.openai.com",
				"claude.ai",
				"gemini.google.com",
				"perplexity.ai",
				"copilot.microsoft.com",
			}},
			{source: SourceSearch, domains: []string{
				"google.com",
				"bing.com",
				"yahoo.com",
				"duckduckgo.com",
				"baidu.com",
				"yandex.ru",
				"ecosia.org",
			}},
			{source: SourceSocial, domains: []string{
				"facebook.com",
				"twitter.com",
				"t.co",
				"x.com",
				"instagram.com",
				"linkedin.com",
				"pinterest.com",
				"reddit.com",
				"tiktok.com",
				"youtube.com",
				"threads.net",
				"mastodon.social",
			}},
		},
	}
}

// ClassifySource returns one of the Source* values. Unparseable or empty
// referers count as direct traffic.
func (r *RefererClassifier) ClassifySource(referer string) string {
	if referer == "" {
		return SourceDirect
	}

	parsed, err := url.Parse(referer)
	if err != nil || parsed.Hostname() == "" {
		return SourceDirect
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")

	for _, rule := range r.rules {
		if lo.ContainsBy(rule.domains, func(domain string) bool { return matchesDomain(host, domain) }) {
			return rule.source
		}
	}
	return SourceReferral
}

// matchesDomain reports whether host is domain or one of its subdomains.
func matchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
