package webhook

import (
	"sort"
	"strings"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
)

// Base and fallback URLs per bulletin source. Scraped links are frequently
// relative paths or javascript pseudo-links; the fallback points at the
// source's bulletin listing page.
var sourceBaseURL = map[warning.Source]string{
	warning.SourceCNMSA: "https://www.msa.gov.cn",
	warning.SourceTWMPB: "https://www.motcmpb.gov.tw",
}

var sourceFallbackURL = map[warning.Source]string{
	warning.SourceCNMSA: "https://www.msa.gov.cn/page/outter/weather.jsp",
	warning.SourceTWMPB: "https://www.motcmpb.gov.tw/Information/Index?SiteId=1&NodeId=326",
}

// fixLink normalizes a scraped bulletin link into an absolute URL. Empty,
// anchor, and javascript links collapse to the source's listing page.
func fixLink(link string, source warning.Source) string {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "javascript:") || strings.HasPrefix(link, "#") {
		return sourceHomepage(source)
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	base := sourceBaseURL[source]
	if base == "" {
		base = sourceBaseURL[warning.SourceCNMSA]
	}
	if strings.HasPrefix(link, "/") {
		return base + link
	}
	return base + "/" + link
}

// sourceHomepage returns the bulletin listing page for a source.
func sourceHomepage(source warning.Source) string {
	if url, ok := sourceFallbackURL[source]; ok {
		return url
	}
	return sourceFallbackURL[warning.SourceCNMSA]
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
