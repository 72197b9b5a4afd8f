// Package webhook delivers warning and risk notifications to a Teams-style
// incoming webhook as adaptive cards.
package webhook

import (
	"fmt"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// maxCoordinatesShown caps the coordinate list rendered on a card.
const maxCoordinatesShown = 5

// maxTitleRunes truncates bulletin titles on batch cards.
const maxTitleRunes = 150

// maxActions is the adaptive-card button limit. One slot is always reserved
// for the source homepage link.
const maxActions = 6

// Card is the webhook message envelope.
type Card struct {
	Type        string       `json:"type"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment wraps a single adaptive card.
type Attachment struct {
	ContentType string      `json:"contentType"`
	Content     CardContent `json:"content"`
}

// CardContent is the adaptive card body.
type CardContent struct {
	Schema  string    `json:"$schema"`
	Type    string    `json:"type"`
	Version string    `json:"version"`
	Body    []Element `json:"body"`
	Actions []Action  `json:"actions,omitempty"`
}

// Element is one adaptive-card body element. The Type field selects which of
// the remaining fields apply (TextBlock, FactSet, Container).
type Element struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Weight   string    `json:"weight,omitempty"`
	Size     string    `json:"size,omitempty"`
	Color    string    `json:"color,omitempty"`
	Wrap     bool      `json:"wrap,omitempty"`
	IsSubtle bool      `json:"isSubtle,omitempty"`
	Spacing  string    `json:"spacing,omitempty"`
	FontType string    `json:"fontType,omitempty"`
	Style    string    `json:"style,omitempty"`
	Facts    []Fact    `json:"facts,omitempty"`
	Items    []Element `json:"items,omitempty"`
}

// Fact is one row of a FactSet.
type Fact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Action is an OpenUrl button.
type Action struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func newCard(title, titleColor string, body []Element, actions []Action) Card {
	head := Element{
		Type:   "TextBlock",
		Text:   title,
		Weight: "Bolder",
		Size:   "Large",
		Color:  titleColor,
	}
	return Card{
		Type: "message",
		Attachments: []Attachment{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			Content: CardContent{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.4",
				Body:    append([]Element{head}, body...),
				Actions: actions,
			},
		}},
	}
}

func textBlock(text string) Element {
	return Element{Type: "TextBlock", Text: text, Wrap: true}
}

func divider() Element {
	return Element{Type: "TextBlock", Text: "────────────────────", Wrap: true}
}

func openURL(title, url string) Action {
	return Action{Type: "Action.OpenUrl", Title: title, URL: url}
}

// formatCoordinates renders extracted points as "lat, lon" lines rounded to
// four decimals, capped at maxCoordinatesShown.
func formatCoordinates(points []maritime.GeoPoint) string {
	if len(points) == 0 {
		return "none"
	}
	shown := points
	if len(shown) > maxCoordinatesShown {
		shown = shown[:maxCoordinatesShown]
	}
	out := ""
	for i, p := range shown {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
	}
	if extra := len(points) - len(shown); extra > 0 {
		out += fmt.Sprintf("\n(+%d more)", extra)
	}
	return out
}

func joinKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return "none"
	}
	out := ""
	for i, k := range keywords {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes]) + "..."
}

// warningFacts is the FactSet shared by single and batch cards.
func warningFacts(w *warning.Warning, full bool) []Fact {
	facts := []Fact{
		{Title: "Bureau:", Value: w.Bureau},
		{Title: "Published:", Value: w.PublishTime},
		{Title: "Keywords:", Value: joinKeywords(w.MatchedKeywords)},
	}
	if full {
		facts = append(facts,
			Fact{Title: "Coordinates:", Value: formatCoordinates(w.Coordinates)},
			Fact{Title: "Scraped:", Value: w.ScrapeTime.UTC().Format("2006-01-02 15:04:05")},
		)
	}
	return facts
}

// buildWarningCard renders one warning with its bulletin link and the source
// homepage as buttons. The full URL is repeated as monospace text because
// some Teams clients block cross-origin button navigation.
func buildWarningCard(w *warning.Warning) Card {
	link := fixLink(w.Link, w.Source)

	body := []Element{
		textBlock(truncateTitle(w.Title)),
		divider(),
		{Type: "FactSet", Facts: warningFacts(w, true)},
		divider(),
		{Type: "TextBlock", Text: "Full bulletin URL:", Weight: "Bolder", Size: "Small", Wrap: true},
		{Type: "TextBlock", Text: link, Wrap: true, Size: "Small", FontType: "Monospace"},
	}
	actions := []Action{
		openURL("Open bulletin", link),
		openURL("Source homepage", sourceHomepage(w.Source)),
	}
	return newCard("Navigation warning", "Attention", body, actions)
}

// buildBatchCard renders up to limit warnings in one card. Warnings beyond
// the limit are summarized in a trailing note.
func buildBatchCard(warnings []*warning.Warning, limit int) Card {
	if limit <= 0 {
		limit = 8
	}
	shown := warnings
	if len(shown) > limit {
		shown = shown[:limit]
	}

	body := []Element{
		{Type: "TextBlock", Text: fmt.Sprintf("%d new navigation warnings detected", len(warnings)),
			Wrap: true, Size: "Medium", Weight: "Bolder"},
		divider(),
	}
	var actions []Action
	for i, w := range shown {
		link := fixLink(w.Link, w.Source)
		body = append(body,
			Element{Type: "TextBlock", Text: fmt.Sprintf("%d. %s", i+1, w.Bureau),
				Weight: "Bolder", Size: "Medium", Color: "Accent", Spacing: "Medium"},
			textBlock(truncateTitle(w.Title)),
			Element{Type: "FactSet", Facts: warningFacts(w, false), Spacing: "Small"},
			Element{Type: "TextBlock", Text: link, Wrap: true, Size: "Small",
				FontType: "Monospace", Spacing: "Small"},
		)
		if len(actions) < maxActions-1 {
			actions = append(actions, openURL(fmt.Sprintf("Warning %d", i+1), link))
		}
		if i < len(shown)-1 {
			body = append(body, divider())
		}
	}
	if extra := len(warnings) - len(shown); extra > 0 {
		body = append(body, Element{
			Type: "TextBlock", Text: fmt.Sprintf("%d more warnings not shown", extra),
			Wrap: true, IsSubtle: true, Size: "Small", Spacing: "Medium",
		})
	}
	actions = append(actions, openURL("Source homepage", sourceHomepage(primarySource(warnings))))

	title := fmt.Sprintf("Navigation warnings (%d)", len(warnings))
	return newCard(title, "Attention", body, actions)
}

// buildRiskAlertCard renders an action-required vessel risk profile.
func buildRiskAlertCard(profile maritime.RiskProfile) Card {
	facts := []Fact{
		{Title: "Vessel:", Value: profile.VesselName},
		{Title: "Threat level:", Value: string(profile.Level)},
		{Title: "Risk score:", Value: fmt.Sprintf("%.1f", profile.OverallScore)},
		{Title: "Hazard zones:", Value: fmt.Sprintf("%d", len(profile.Assessments))},
	}
	body := []Element{
		{Type: "FactSet", Facts: facts},
	}
	if len(profile.Recommendations) > 0 {
		body = append(body, divider(),
			Element{Type: "TextBlock", Text: "Recommended actions:", Weight: "Bolder", Wrap: true})
		for _, rec := range profile.Recommendations {
			body = append(body, Element{Type: "TextBlock", Text: "- " + rec, Wrap: true, Size: "Small"})
		}
	}
	return newCard("Vessel risk alert", "Attention", body, nil)
}

// buildSummaryCard renders store statistics after a scrape cycle.
func buildSummaryCard(stats warning.Statistics, now time.Time) Card {
	body := []Element{
		textBlock("Scrape cycle summary"),
		divider(),
		{Type: "FactSet", Facts: []Fact{
			{Title: "Total warnings:", Value: fmt.Sprintf("%d", stats.Total)},
			{Title: "Pending notification:", Value: fmt.Sprintf("%d", stats.Unnotified)},
			{Title: "With coordinates:", Value: fmt.Sprintf("%d", stats.WithCoordinates)},
			{Title: "As of:", Value: now.UTC().Format("2006-01-02 15:04:05")},
		}},
	}
	if len(stats.ByBureau) > 0 {
		var facts []Fact
		for _, bureau := range sortedKeys(stats.ByBureau) {
			facts = append(facts, Fact{Title: bureau + ":", Value: fmt.Sprintf("%d", stats.ByBureau[bureau])})
		}
		body = append(body, divider(),
			Element{Type: "TextBlock", Text: "Warnings by bureau:", Weight: "Bolder", Wrap: true},
			Element{Type: "FactSet", Facts: facts})
	}
	return newCard("Monitoring report", "Accent", body, nil)
}

func buildTestCard(now time.Time) Card {
	body := []Element{
		textBlock("Webhook connectivity check."),
		{Type: "TextBlock", Text: "Sent: " + now.UTC().Format("2006-01-02 15:04:05"),
			Wrap: true, Size: "Small", IsSubtle: true},
	}
	return newCard("Connection test", "Accent", body, nil)
}

// primarySource picks the homepage button target for a mixed batch: the
// source of the first warning.
func primarySource(warnings []*warning.Warning) warning.Source {
	if len(warnings) == 0 {
		return warning.SourceCNMSA
	}
	return warnings[0].Source
}
